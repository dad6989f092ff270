// Package colsplit decomposes a CSV stream into one output stream per
// column.
//
// The input is RFC 4180-style delimited text. Each column of the input
// becomes its own delimited-value stream holding that column's value
// from every row, one value per line. Quoted fields are copied
// verbatim, quotes and doubled-quote escapes included, so every column
// stream is itself valid CSV.
//
// Processing is streaming throughout: the splitter holds one
// fixed-size input window plus one output buffer per column, never a
// whole row or the whole input, so arbitrarily large inputs and
// arbitrarily long fields are fine. Output bytes are identical no
// matter how the input happens to arrive in chunks.
//
// Non-rectangular input is rectangularized: rows shorter than the
// widest row seen get blank padding lines in the columns they lack, so
// line i of every column file always belongs to input row i.
//
// # Splitting to files
//
//	res, err := colsplit.SplitFile("data.csv", "out/col")
//	if err != nil {
//	    // handle error
//	}
//	// out/col001.csv .. out/colNNN.csv now hold one column each
//
// Compressed inputs (gzip, zstd, xz) are detected by content and
// decompressed transparently.
//
// # Splitting to arbitrary writers
//
//	factory := func(index int) (io.WriteCloser, error) {
//	    // return any destination for column #index
//	}
//	res, err := colsplit.Split(reader, factory)
//
// A Splitter instance is not shared: each call creates its own state.
// Distinct calls are safe to run concurrently as long as their
// factories write to distinct destinations.
package colsplit

import (
	"fmt"
	"io"
	"os"

	"github.com/shapestone/split-csv/internal/colsink"
	"github.com/shapestone/split-csv/internal/input"
	"github.com/shapestone/split-csv/internal/splitter"
)

// WriterFactory creates the destination writer for a newly discovered
// column. index is the column's 0-based discovery order. The splitter
// closes every returned writer during finalization.
type WriterFactory func(index int) (io.WriteCloser, error)

// Result reports what a completed split consumed and produced.
type Result struct {
	// Rows is the number of input rows processed, counting empty rows.
	Rows int
	// Columns is the number of column streams created, which equals
	// the widest row seen.
	Columns int
}

// Split reads CSV from r and writes each column to a writer obtained
// from factory, using default options.
//
// Empty input produces no columns: factory is only invoked for
// columns that exist.
func Split(r io.Reader, factory WriterFactory) (Result, error) {
	return SplitWithOptions(r, factory, DefaultOptions())
}

// SplitWithOptions reads CSV from r and writes each column to a
// writer obtained from factory.
//
// All column writers are flushed and closed before returning, also on
// error. After a non-nil error the outputs must be treated as
// invalid: there is no partial-success state.
//
// Example:
//
//	opts := colsplit.DefaultOptions()
//	opts.Comma = '\t'
//	res, err := colsplit.SplitWithOptions(r, factory, opts)
func SplitWithOptions(r io.Reader, factory WriterFactory, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	sink := colsink.New(colsink.Factory(factory), opts.BufferSize, '\n')
	sp := splitter.New(r, sink, splitter.Config{
		Comma:     byte(opts.Comma),
		ChunkSize: opts.ChunkSize,
	})

	stats, runErr := sp.Run()
	finErr := sink.Finalize()

	res := Result{Rows: stats.Rows, Columns: stats.Columns}
	if runErr != nil {
		return res, runErr
	}
	return res, finErr
}

// SplitFile splits the CSV file at path into per-column files named
// <prefix>NNN.csv, using default options. See SplitFileWithOptions.
func SplitFile(path, prefix string) (Result, error) {
	return SplitFileWithOptions(path, prefix, DefaultOptions())
}

// SplitFileWithOptions splits the CSV file at path into per-column
// files named by FileFactory(prefix).
//
// The file's content is sniffed first: gzip, zstd and xz inputs are
// decompressed on the fly, anything else is consumed as plain bytes.
func SplitFileWithOptions(path, prefix string, opts Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	r, err := input.NewReader(f)
	if err != nil {
		return Result{}, err
	}
	return SplitWithOptions(r, FileFactory(prefix), opts)
}
