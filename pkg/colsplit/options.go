package colsplit

import (
	"unicode/utf8"
)

// Options configures splitting behavior.
type Options struct {
	// Comma is the field delimiter.
	// It must be an ASCII character other than '"', '\r' or '\n'.
	// Default: ','
	Comma rune

	// ChunkSize is the capacity in bytes of the input window the
	// tokenizer scans. The splitter never holds more input than one
	// window regardless of field or row length.
	// Default: 16384
	ChunkSize int

	// BufferSize is the capacity in bytes of each column's output
	// buffer. Column output is written through in buffer-sized
	// pieces.
	// Default: 16384
	BufferSize int
}

// DefaultOptions returns the default splitting configuration.
func DefaultOptions() Options {
	return Options{
		Comma:      ',',
		ChunkSize:  16 * 1024,
		BufferSize: 16 * 1024,
	}
}

// validDelim reports whether r can serve as the field delimiter.
// The tokenizer works on raw bytes, so the delimiter must be a single
// ASCII byte and must not collide with the quote or record separator.
func validDelim(r rune) bool {
	return r > 0 && r < utf8.RuneSelf && r != '"' && r != '\r' && r != '\n'
}

// Validate checks if the options are valid.
// Returns an error if the options are invalid.
func (o Options) Validate() error {
	if !validDelim(o.Comma) {
		return &OptionsError{Field: "Comma", Message: "invalid delimiter"}
	}
	if o.ChunkSize <= 0 {
		return &OptionsError{Field: "ChunkSize", Message: "must be positive"}
	}
	if o.BufferSize <= 0 {
		return &OptionsError{Field: "BufferSize", Message: "must be positive"}
	}
	return nil
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "colsplit: invalid " + e.Field + ": " + e.Message
}
