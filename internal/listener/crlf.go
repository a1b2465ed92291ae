package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter normalizes line endings for terminal clients. Reads turn
// "\r\n" and bare "\r" into "\n"; writes turn "\n" into "\r\n".
type crlfReadWriter struct {
	rw io.ReadWriter

	// lastCR is set when the previous read ended in '\r', so a '\n' opening
	// the next read belongs to the same line ending.
	lastCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

func (c *crlfReadWriter) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n == 0 {
		return n, err
	}

	data := p[:n]
	if c.lastCR && data[0] == '\n' {
		data = data[1:]
	}
	c.lastCR = len(data) > 0 && data[len(data)-1] == '\r'

	// Telnet sends \r\n, SSH with a PTY sends just \r.
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	return copy(p, data), err
}

func (c *crlfReadWriter) Write(p []byte) (int, error) {
	converted := bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))
	_, err := c.rw.Write(converted)
	// Report the caller's length so the size change stays invisible.
	return len(p), err
}
