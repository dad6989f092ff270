// Package colsink manages one buffered output stream per discovered
// CSV column.
//
// Columns are created in discovery order and are append-only: once a
// column index exists it receives exactly one terminator per input
// row, either with real content before it or as a blank padding line.
// That per-row terminator discipline is what keeps every column file
// row-aligned when the input is not rectangular.
package colsink

import (
	"fmt"
	"io"
)

// Factory creates the underlying writer for a newly discovered column.
// The index is the column's 0-based discovery order.
type Factory func(index int) (io.WriteCloser, error)

// Sink owns the per-column buffered writers.
//
// Each column owns its buffer and its writer exclusively; Sink is not
// safe for concurrent use.
type Sink struct {
	factory    Factory
	bufSize    int
	terminator byte
	cols       []*column
	finalized  bool
}

type column struct {
	w   io.WriteCloser
	buf []byte
	pos int
}

// New creates a Sink that obtains column writers from factory.
// bufSize is the capacity of each column's output buffer and
// terminator is the byte written after every value (one per row).
func New(factory Factory, bufSize int, terminator byte) *Sink {
	return &Sink{
		factory:    factory,
		bufSize:    bufSize,
		terminator: terminator,
	}
}

// Len returns the number of columns discovered so far.
func (s *Sink) Len() int {
	return len(s.cols)
}

// Ensure makes sure the column at index exists. A column discovered
// after completedRows rows have already finished is retroactively
// padded with one terminator per completed row so its line numbering
// stays aligned with the columns discovered earlier.
//
// Only index == Len() creates a column; smaller indexes are a no-op.
func (s *Sink) Ensure(index int, completedRows int) error {
	if index != len(s.cols) {
		return nil
	}
	w, err := s.factory(index)
	if err != nil {
		return fmt.Errorf("creating column %d: %w", index, err)
	}
	c := &column{
		w:   w,
		buf: make([]byte, s.bufSize),
	}
	s.cols = append(s.cols, c)
	if completedRows > 0 {
		return s.Fill(index, s.terminator, completedRows)
	}
	return nil
}

// Append copies p into the column's buffer, flushing to the
// underlying writer whenever the buffer fills. Appends larger than
// the buffer are flushed in buffer-sized slices without an
// intermediate copy of p.
func (s *Sink) Append(index int, p []byte) error {
	c := s.cols[index]
	remaining := len(c.buf) - c.pos
	for len(p) >= remaining {
		copy(c.buf[c.pos:], p[:remaining])
		c.pos += remaining
		if err := c.flush(); err != nil {
			return err
		}
		p = p[remaining:]
		remaining = len(c.buf)
	}
	if len(p) != 0 {
		copy(c.buf[c.pos:], p)
		c.pos += len(p)
	}
	return nil
}

// AppendByte writes a single byte of field content.
func (s *Sink) AppendByte(index int, b byte) error {
	return s.Fill(index, b, 1)
}

// Terminator writes one value terminator to the column.
func (s *Sink) Terminator(index int) error {
	return s.Fill(index, s.terminator, 1)
}

// Fill writes count repetitions of b to the column. The buffer is
// filled at most once; bulk fills larger than the buffer re-flush the
// same filled buffer instead of allocating.
func (s *Sink) Fill(index int, b byte, count int) error {
	c := s.cols[index]

	if c.pos+count <= len(c.buf) {
		fill(c.buf[c.pos:c.pos+count], b)
		c.pos += count
		return nil
	}

	if c.pos != 0 {
		if err := c.flush(); err != nil {
			return err
		}
	}

	if count >= len(c.buf) {
		fill(c.buf, b)
		for count >= len(c.buf) {
			c.pos = len(c.buf)
			if err := c.flush(); err != nil {
				return err
			}
			count -= len(c.buf)
		}
		c.pos = count
		return nil
	}

	fill(c.buf[:count], b)
	c.pos = count
	return nil
}

// Finalize flushes and closes every column writer. It must be called
// exactly once, after all input has been processed. The first error
// encountered is returned, but every column is still flushed and
// closed.
func (s *Sink) Finalize() error {
	if s.finalized {
		return nil
	}
	s.finalized = true

	var firstErr error
	for i, c := range s.cols {
		if err := c.flush(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flushing column %d: %w", i, err)
		}
		if err := c.w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing column %d: %w", i, err)
		}
	}
	return firstErr
}

func (c *column) flush() error {
	if c.pos == 0 {
		return nil
	}
	n, err := c.w.Write(c.buf[:c.pos])
	if err != nil {
		return err
	}
	if n != c.pos {
		return io.ErrShortWrite
	}
	c.pos = 0
	return nil
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
