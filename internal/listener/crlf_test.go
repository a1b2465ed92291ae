package listener

import (
	"bytes"
	"io"
	"testing"

	"github.com/pixil98/go-testutil"
)

// chunkedConn returns one chunk per Read and records writes.
type chunkedConn struct {
	chunks  []string
	written bytes.Buffer
}

func (c *chunkedConn) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks = c.chunks[1:]
	return n, nil
}

func (c *chunkedConn) Write(p []byte) (int, error) {
	return c.written.Write(p)
}

func TestCRLFReadWriter_Read(t *testing.T) {
	tests := map[string]struct {
		chunks []string
		exp    string
	}{
		"telnet line endings": {
			chunks: []string{"look 0\r\nquit\r\n"},
			exp:    "look 0\nquit\n",
		},
		"bare carriage return": {
			chunks: []string{"i\rquit\r"},
			exp:    "i\nquit\n",
		},
		"ending split across reads": {
			chunks: []string{"i\r", "\nquit\r\n"},
			exp:    "i\nquit\n",
		},
		"plain newlines": {
			chunks: []string{"i\n", "\n"},
			exp:    "i\n\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rw := newCRLFReadWriter(&chunkedConn{chunks: tt.chunks})

			got, err := io.ReadAll(rw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "read", string(got), tt.exp)
		})
	}
}

func TestCRLFReadWriter_Write(t *testing.T) {
	conn := &chunkedConn{}
	rw := newCRLFReadWriter(conn)

	n, err := rw.Write([]byte("Backpack (1/4):\n  [  0] Potion x3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "length", n, 34)
	testutil.AssertEqual(t, "written", conn.written.String(), "Backpack (1/4):\r\n  [  0] Potion x3\r\n")
}
