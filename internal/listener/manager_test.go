package listener

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type recordingRunner struct {
	conns []io.ReadWriter
	err   error
}

func (r *recordingRunner) RunSession(_ context.Context, conn io.ReadWriter) error {
	r.conns = append(r.conns, conn)
	return r.err
}

type rwPair struct {
	io.Reader
	io.Writer
}

func TestConnectionManager_AcceptConnection(t *testing.T) {
	tests := map[string]struct {
		err error
	}{
		"clean exit":    {},
		"session error": {err: errors.New("connection reset")},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			runner := &recordingRunner{err: tt.err}
			cm := NewConnectionManager(runner)
			conn := rwPair{Reader: strings.NewReader(""), Writer: io.Discard}

			cm.AcceptConnection(context.Background(), conn)

			testutil.AssertEqual(t, "sessions", len(runner.conns), 1)
		})
	}
}
