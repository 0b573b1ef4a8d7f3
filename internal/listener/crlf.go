package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter translates line endings for telnet and ssh clients: CR,
// LF and CRLF all read as LF, and LF is written as CRLF.
type crlfReadWriter struct {
	rw     io.ReadWriter
	lastCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

func (c *crlfReadWriter) Read(p []byte) (int, error) {
	for {
		n, err := c.rw.Read(p)
		out := p[:0]
		for _, b := range p[:n] {
			switch {
			case b == '\r':
				out = append(out, '\n')
				c.lastCR = true
			case b == '\n' && c.lastCR:
				// second half of a CRLF, possibly split across reads
				c.lastCR = false
			default:
				out = append(out, b)
				c.lastCR = false
			}
		}
		if len(out) > 0 || err != nil || n == 0 {
			return len(out), err
		}
	}
}

func (c *crlfReadWriter) Write(p []byte) (int, error) {
	_, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	// callers expect the length they asked to write
	return len(p), err
}
