// Package input opens CSV sources with transparent decompression.
//
// The splitter itself only wants a flat byte stream; this package
// sniffs the leading bytes of the source and, when they identify a
// gzip, zstd or xz container, inserts the matching decompressor.
// Anything unrecognized passes through untouched, so plain CSV never
// pays a detection penalty beyond one buffered read.
package input

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// headerSize is how many leading bytes are sniffed. 512 covers every
// magic number mimetype needs for the container formats handled here.
const headerSize = 512

// NewReader wraps r with a decompressor when its content is a
// compressed container, and returns r (buffered) unchanged otherwise.
// Detection is content-based, not name-based, so it works on stdin
// and other unseekable streams.
func NewReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, headerSize)
	head, err := br.Peek(headerSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading input header: %w", err)
	}

	mt := mimetype.Detect(head)
	switch {
	case mt.Is("application/gzip"):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip input: %w", err)
		}
		return zr, nil

	case mt.Is("application/zstd"):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening zstd input: %w", err)
		}
		return zr.IOReadCloser(), nil

	case mt.Is("application/x-xz"):
		zr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening xz input: %w", err)
		}
		return zr, nil

	default:
		return br, nil
	}
}
