package telemetry

import (
	"context"
	"fmt"

	"github.com/pixil98/go-errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const DefaultServiceName = "satchel"

// Config controls trace export.
type Config struct {
	Enabled     bool   `json:"enabled" env:"SATCHEL_OTEL_ENABLED"`
	Endpoint    string `json:"endpoint" env:"SATCHEL_OTEL_ENDPOINT"`
	ServiceName string `json:"service_name"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()
	if c.Enabled && c.Endpoint == "" {
		el.Add(fmt.Errorf("endpoint is required when telemetry is enabled"))
	}
	return el.Err()
}

// Setup installs an OTLP/HTTP tracer provider when tracing is enabled.
// The returned shutdown function flushes pending spans and is safe to call
// when tracing is disabled.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled || cfg.Endpoint == "" {
		return noop, nil
	}

	name := cfg.ServiceName
	if name == "" {
		name = DefaultServiceName
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return noop, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(name),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("building resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Worker flushes the tracer provider when the application stops.
type Worker struct {
	shutdown func(context.Context) error
}

func NewWorker(shutdown func(context.Context) error) *Worker {
	return &Worker{shutdown: shutdown}
}

func (w *Worker) Start(ctx context.Context) error {
	<-ctx.Done()
	return w.shutdown(context.WithoutCancel(ctx))
}
