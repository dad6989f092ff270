package splitter

import (
	"fmt"
	"io"
)

// chunkSource supplies bounded windows of input bytes on demand.
//
// next fills the window with up to cap(buf) bytes and returns the
// number of valid bytes. A return of 0 with a nil error means true
// end of input: all buffered data has been consumed and a further
// read would produce nothing. Short reads are normal and carry no
// end-of-input meaning of their own.
type chunkSource struct {
	r     io.Reader
	buf   []byte
	final bool
}

func newChunkSource(r io.Reader, size int) *chunkSource {
	return &chunkSource{
		r:   r,
		buf: make([]byte, size),
	}
}

func (c *chunkSource) next() (int, error) {
	if c.final {
		return 0, nil
	}
	for {
		n, err := c.r.Read(c.buf)
		if n > 0 {
			if err == io.EOF {
				c.final = true
			}
			return n, nil
		}
		switch err {
		case nil:
			// Zero bytes with no error: try again.
			continue
		case io.EOF:
			c.final = true
			return 0, nil
		default:
			return 0, fmt.Errorf("reading input: %w", err)
		}
	}
}
