package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/pixil98/go-satchel/internal/session")

// Session runs the read-eval loop for one connection. Everything touching the
// agent happens on the goroutine running Play.
type Session struct {
	in      *bufio.Reader
	out     io.Writer
	agent   *Agent
	handler *Handler

	msgs chan string
}

// NewSession creates a session reading commands from in and writing to out.
func NewSession(in *bufio.Reader, out io.Writer, agent *Agent, handler *Handler) *Session {
	return &Session{
		in:      in,
		out:     out,
		agent:   agent,
		handler: handler,
		msgs:    make(chan string, 16),
	}
}

// Notify queues a line to show between prompts. It is safe to call from any
// goroutine and drops the line if the session is backed up.
func (s *Session) Notify(msg string) {
	select {
	case s.msgs <- msg:
	default:
		slog.Warn("dropping session message", "agent", s.agent.Name)
	}
}

// Play reads commands until the connection closes, the player quits or ctx ends.
func (s *Session) Play(ctx context.Context) error {
	// Start goroutine to read input lines into a channel
	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case inputChan <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		inputErrChan <- scanner.Err()
		close(inputChan)
	}()

	if err := s.run(ctx, "inventory", nil); err != nil {
		return fmt.Errorf("initial inventory failed: %w", err)
	}
	if err := s.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg := <-s.msgs:
			if err := s.writeLine("\n" + msg); err != nil {
				return err
			}
			if err := s.prompt(); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				select {
				case err := <-inputErrChan:
					return err
				default:
					return nil
				}
			}

			parts := strings.Fields(line)
			if len(parts) > 0 {
				err := s.run(ctx, parts[0], parts[1:])
				if errors.Is(err, ErrQuit) {
					return s.writeLine("Goodbye!")
				}
				if err != nil {
					return err
				}
			}

			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

// run executes one command inside a span and writes its output. User errors
// are shown to the player; anything else is returned.
func (s *Session) run(ctx context.Context, cmdName string, args []string) error {
	name, known := s.handler.Lookup(cmdName)
	if !known {
		name = "unknown"
	}
	ctx, span := tracer.Start(ctx, "command "+name, trace.WithAttributes(
		attribute.String("agent", s.agent.Name),
		attribute.String("command", name),
		attribute.Int("args", len(args)),
	))
	defer span.End()

	out, err := s.handler.Exec(ctx, s.agent, cmdName, args...)
	if err != nil {
		var userErr *UserError
		switch {
		case errors.As(err, &userErr):
			span.SetAttributes(attribute.String("user_error", userErr.Message))
			return s.writeLine(userErr.Message)
		case errors.Is(err, ErrQuit):
			return err
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("command execution failed: %w", err)
		}
	}

	if out == "" {
		return nil
	}
	return s.writeLine(out)
}

func (s *Session) prompt() error {
	p := fmt.Sprintf("[%d/%dHP] > ", s.agent.Stats.CurrentHP(), s.agent.Stats.MaxHP())
	_, err := io.WriteString(s.out, p)
	return err
}

func (s *Session) writeLine(msg string) error {
	_, err := io.WriteString(s.out, strings.TrimRight(msg, "\n")+"\n\n")
	return err
}
