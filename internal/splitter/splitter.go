// Package splitter implements the chunked tokenizer that demultiplexes
// a CSV byte stream into per-column output streams.
//
// The tokenizer is a restartable state machine: it scans one
// fixed-size input window at a time and can suspend at any byte
// position when a field, a quoted section, or a structural token
// straddles the window boundary, resuming identically on the next
// window. The sequence of state transitions is independent of how the
// input happens to be chunked, which is the property the whole design
// hangs on.
//
// Scans for structural bytes report "not in this window" as an index
// equal to the window length, and every end-of-window test compares
// positions against that length. No bytes outside the valid window are
// ever read.
package splitter

import (
	"bytes"
	"io"

	"github.com/shapestone/split-csv/internal/colsink"
)

// DefaultChunkSize is the input window capacity used when the caller
// does not override it. 16KB matches the buffer the column sinks use.
const DefaultChunkSize = 16 * 1024

// state identifies where in a record the scan cursor stopped.
type state uint8

const (
	// stateRowInitial: a record separator was just consumed; the
	// finished row still needs ragged-row padding.
	stateRowInitial state = iota
	// stateColumnInitial: positioned at the first byte of a field.
	stateColumnInitial
	// stateInSimpleField: inside an unquoted field.
	stateInSimpleField
	// stateInQuotedField: inside a quoted field, not on a quote.
	stateInQuotedField
	// stateQuotedQuote: a quote was the last byte of the previous
	// window; it is either the closing quote or the first half of an
	// escaped pair, decided by the next byte.
	stateQuotedQuote
)

// Config carries the tokenizer tuning knobs.
type Config struct {
	// Comma is the field separator byte.
	Comma byte
	// ChunkSize is the input window capacity in bytes.
	ChunkSize int
}

// Stats reports what a completed run consumed and produced.
type Stats struct {
	// Rows is the number of input rows processed, counting empty rows.
	Rows int
	// Columns is the number of columns discovered, which equals the
	// widest row seen.
	Columns int
}

// Splitter drives one split run. It is single use: create one per
// input stream and call Run exactly once.
type Splitter struct {
	src   *chunkSource
	sink  *colsink.Sink
	comma byte

	st   state
	rows int // rows completed so far; also the 0-based index of the current row
	col  int // next column index within the current row

	win    []byte // current window of valid input bytes
	pos    int    // scan cursor within win
	recSep int    // index of the next record separator in win, or len(win)
}

// New creates a Splitter that reads from r and writes field bytes and
// terminators to sink.
func New(r io.Reader, sink *colsink.Sink, cfg Config) *Splitter {
	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &Splitter{
		src:   newChunkSource(r, size),
		sink:  sink,
		comma: cfg.Comma,
		st:    stateColumnInitial,
	}
}

// Run consumes the whole input stream and demultiplexes it into the
// sink's columns. It does not finalize the sink; the caller owns that,
// so partially written outputs can still be flushed or discarded
// deliberately after an error.
func (s *Splitter) Run() (Stats, error) {
	for {
		n, err := s.src.next()
		if err != nil {
			return s.stats(), err
		}
		if n == 0 {
			err := s.finish()
			return s.stats(), err
		}
		s.win = s.src.buf[:n]
		s.pos = 0
		if s.st != stateRowInitial {
			// stateRowInitial locates the separator itself, after the
			// padding loop; locating it twice would be wasted work.
			s.locateRecordSep(0)
		}
		for s.pos < len(s.win) {
			if err := s.step(); err != nil {
				return s.stats(), err
			}
		}
	}
}

func (s *Splitter) stats() Stats {
	return Stats{Rows: s.rows, Columns: s.sink.Len()}
}

// step advances the state machine by one transition at the current
// cursor position.
func (s *Splitter) step() error {
	switch s.st {
	case stateRowInitial:
		return s.stepRowInitial()
	case stateColumnInitial:
		return s.stepColumnInitial()
	case stateInSimpleField:
		return s.stepSimpleField()
	case stateInQuotedField:
		return s.stepQuotedField()
	default:
		return s.stepQuotedQuote()
	}
}

// stepRowInitial closes out the row whose record separator was just
// consumed and prepares the next one. Columns the finished row never
// reached get one blank padding line each, which keeps all column
// streams row-aligned.
func (s *Splitter) stepRowInitial() error {
	for s.col < s.sink.Len() {
		if err := s.sink.Terminator(s.col); err != nil {
			return err
		}
		s.col++
	}
	s.col = 0
	s.locateRecordSep(s.pos)
	s.st = stateColumnInitial
	return nil
}

// stepColumnInitial dispatches on the first byte of a field.
func (s *Splitter) stepColumnInitial() error {
	if err := s.sink.Ensure(s.col, s.rows); err != nil {
		return err
	}
	switch b := s.win[s.pos]; {
	case b == '"':
		// Opening quote. It is part of the column's output: quoted
		// fields are copied verbatim so each column file stays valid
		// CSV without re-encoding.
		if err := s.sink.AppendByte(s.col, '"'); err != nil {
			return err
		}
		s.pos++
		s.st = stateInQuotedField
	case b == s.comma:
		// Empty field.
		if err := s.sink.Terminator(s.col); err != nil {
			return err
		}
		s.col++
		s.pos++
	case s.pos == s.recSep:
		// Record separator at a field start: an empty field ends the
		// row (either a trailing empty field or an entirely empty
		// row). Its blank line is written by the padding loop in
		// stateRowInitial.
		s.pos++
		s.endRow()
	default:
		s.st = stateInSimpleField
	}
	return nil
}

// stepSimpleField scans an unquoted field up to the next separator.
func (s *Splitter) stepSimpleField() error {
	sep := s.indexFrom(s.comma, s.pos)
	if s.recSep < sep {
		sep = s.recSep
	}

	if sep == len(s.win) {
		// Neither separator is in this window: the field straddles
		// the boundary. Copy what is visible and resume here on the
		// next window.
		if err := s.sink.Append(s.col, s.win[s.pos:]); err != nil {
			return err
		}
		s.pos = len(s.win)
		return nil
	}

	if err := s.sink.Append(s.col, s.win[s.pos:sep]); err != nil {
		return err
	}
	if err := s.sink.Terminator(s.col); err != nil {
		return err
	}
	s.col++
	s.pos = sep + 1
	if sep == s.recSep {
		s.endRow()
	} else {
		s.st = stateColumnInitial
	}
	return nil
}

// stepQuotedField scans a quoted field for its closing quote,
// skipping escaped ("") pairs. Quoted content may contain record
// separators, so the record-separator lookahead is pushed forward
// whenever the scan passes it.
func (s *Splitter) stepQuotedField() error {
	start := s.pos
	scan := s.pos
	for {
		q := s.indexFrom('"', scan)
		if q > s.recSep {
			// The tracked separator is inside the quotes and does not
			// end the row; the real one is somewhere after the quote.
			s.locateRecordSep(q)
		}

		switch {
		case q == len(s.win):
			// No quote in the rest of the window: the quoted section
			// straddles the boundary.
			if err := s.sink.Append(s.col, s.win[start:]); err != nil {
				return err
			}
			s.pos = len(s.win)
			return nil

		case q == len(s.win)-1:
			// Quote on the very last byte: cannot distinguish a
			// closing quote from the first half of an escaped pair
			// without the next byte. Flush through the quote and
			// decide on the next window.
			if err := s.sink.Append(s.col, s.win[start:]); err != nil {
				return err
			}
			s.pos = len(s.win)
			s.st = stateQuotedQuote
			return nil
		}

		switch next := s.win[q+1]; {
		case next == '"':
			// Escaped quote; both bytes remain in the output verbatim.
			scan = q + 2

		case next == s.comma:
			if err := s.closeQuotedField(start, q); err != nil {
				return err
			}
			s.pos = q + 2
			s.st = stateColumnInitial
			return nil

		case next == '\n':
			// Closing quote directly before a record separator ends
			// both the field and the row.
			if err := s.closeQuotedField(start, q); err != nil {
				return err
			}
			s.pos = q + 2
			s.endRow()
			return nil

		default:
			// Stray byte after a closing quote, commonly a carriage
			// return. Keep it as unquoted continuation of the field
			// rather than failing mid-stream.
			if err := s.sink.Append(s.col, s.win[start:q+1]); err != nil {
				return err
			}
			s.pos = q + 1
			s.st = stateInSimpleField
			return nil
		}
	}
}

// closeQuotedField flushes the remaining quoted content through the
// closing quote at q and terminates the column's value.
func (s *Splitter) closeQuotedField(start, q int) error {
	if err := s.sink.Append(s.col, s.win[start:q+1]); err != nil {
		return err
	}
	if err := s.sink.Terminator(s.col); err != nil {
		return err
	}
	s.col++
	return nil
}

// stepQuotedQuote resumes after a window boundary split a quote from
// the byte that classifies it. The quote itself was already written.
// Every branch here must agree with the in-window branches of
// stepQuotedField: the output may not depend on where the boundary
// fell.
func (s *Splitter) stepQuotedQuote() error {
	switch b := s.win[s.pos]; {
	case b == '"':
		// The pending quote was the first half of an escaped pair.
		if err := s.sink.AppendByte(s.col, '"'); err != nil {
			return err
		}
		s.pos++
		s.st = stateInQuotedField
	case b == s.comma:
		// The pending quote closed the field.
		if err := s.sink.Terminator(s.col); err != nil {
			return err
		}
		s.col++
		s.pos++
		s.st = stateColumnInitial
	case s.pos == s.recSep:
		// The pending quote closed the field and the row.
		if err := s.sink.Terminator(s.col); err != nil {
			return err
		}
		s.col++
		s.pos++
		s.endRow()
	default:
		// Unquoted continuation, same as the in-window stray-byte
		// branch of stepQuotedField.
		s.st = stateInSimpleField
	}
	return nil
}

// endRow records a consumed record separator.
func (s *Splitter) endRow() {
	s.rows++
	s.st = stateRowInitial
}

// finish handles true end of input. A pending unquoted field or a
// pending closing quote terminates its column; the final row then
// receives the same ragged-row padding every other row got from
// stateRowInitial.
func (s *Splitter) finish() error {
	switch s.st {
	case stateInQuotedField:
		return &SyntaxError{Row: s.rows + 1, Column: s.col + 1, Err: ErrUnterminatedQuote}

	case stateInSimpleField, stateQuotedQuote:
		if err := s.sink.Terminator(s.col); err != nil {
			return err
		}
		s.col++
		s.rows++

	case stateColumnInitial:
		if s.col == 0 {
			// Nothing was ever written: empty input, no columns.
			return nil
		}
		// Input ended directly after a field separator: the trailing
		// empty field still belongs to the row.
		if err := s.sink.Ensure(s.col, s.rows); err != nil {
			return err
		}
		if err := s.sink.Terminator(s.col); err != nil {
			return err
		}
		s.col++
		s.rows++

	case stateRowInitial:
		// The padding below settles the already-counted final row.
	}

	for s.col < s.sink.Len() {
		if err := s.sink.Terminator(s.col); err != nil {
			return err
		}
		s.col++
	}
	return nil
}

// locateRecordSep finds the next record separator at or after from,
// storing len(win) when the window holds none.
func (s *Splitter) locateRecordSep(from int) {
	s.recSep = s.indexFrom('\n', from)
}

// indexFrom returns the index of the first occurrence of b at or
// after from, or len(win) when the window holds none.
func (s *Splitter) indexFrom(b byte, from int) int {
	if i := bytes.IndexByte(s.win[from:], b); i >= 0 {
		return from + i
	}
	return len(s.win)
}
