package splitter

import (
	"errors"
	"fmt"
)

// ErrUnterminatedQuote reports a quoted field still open when the
// input ends.
var ErrUnterminatedQuote = errors.New("unclosed quoted field at end of input")

// SyntaxError reports malformed CSV with the position the tokenizer
// had reached. Rows and columns are 1-indexed.
type SyntaxError struct {
	Row    int
	Column int
	Err    error
}

// Error returns a formatted message with position information.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("row %d, column %d: %v", e.Row, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}
