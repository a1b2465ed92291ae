package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/iammegalith/telnet"
)

// TelnetListener serves plain telnet. It is also the telnet.Handler for its
// own server, so every connection shares one context that Stop cancels.
type TelnetListener struct {
	addr   string
	cm     *ConnectionManager
	logger *slog.Logger

	connCtx     context.Context
	cancelConns context.CancelFunc
	conns       sync.WaitGroup
	open        atomic.Int64
}

func NewTelnetListener(host string, port uint16, cm *ConnectionManager) *TelnetListener {
	connCtx, cancel := context.WithCancel(context.Background())
	return &TelnetListener{
		addr:        net.JoinHostPort(host, strconv.Itoa(int(port))),
		cm:          cm,
		logger:      slog.Default().With("listener", "telnet"),
		connCtx:     connCtx,
		cancelConns: cancel,
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	svr := telnet.NewServer(l.addr, l)
	l.logger.InfoContext(ctx, "listening for telnet", "addr", l.addr)

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			svr.Stop()
			l.cancelConns()
			l.conns.Wait()
		case <-stopped:
		}
	}()

	err := svr.ListenAndServe()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, syscall.EADDRINUSE):
		return fmt.Errorf("telnet address %s is already in use", l.addr)
	default:
		return fmt.Errorf("serving telnet on %s: %w", l.addr, err)
	}
}

// HandleTelnet satisfies telnet.Handler.
func (l *TelnetListener) HandleTelnet(conn *telnet.Connection) {
	l.conns.Add(1)
	defer l.conns.Done()

	l.logger.Debug("telnet connection opened", "open", l.open.Add(1))
	defer func() {
		if err := conn.Close(); err != nil {
			l.logger.Warn("closing telnet connection", "error", err)
		}
		l.logger.Debug("telnet connection closed", "open", l.open.Add(-1))
	}()

	l.cm.AcceptConnection(l.connCtx, conn)
}
