// Package colsplit error types.
//
// Malformed input surfaces as a *SyntaxError value rather than a
// panic or a process exit: callers decide what to do with it. I/O and
// setup failures are returned as wrapped errors from the underlying
// operation.
package colsplit

import (
	"github.com/shapestone/split-csv/internal/splitter"
)

// SyntaxError reports malformed CSV with the row and column (both
// 1-indexed) the tokenizer had reached. Use errors.As to extract it
// and errors.Is against the sentinel errors below to classify it.
type SyntaxError = splitter.SyntaxError

// ErrUnterminatedQuote indicates the input ended inside a quoted
// field. Column outputs written before the error must be discarded:
// row alignment past the failure point is undefined.
var ErrUnterminatedQuote = splitter.ErrUnterminatedQuote
