// Command splitcsv decomposes a CSV file into one file per column.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shapestone/split-csv/internal/input"
	"github.com/shapestone/split-csv/pkg/colsplit"
)

// sniffSample is how much of the input the "auto" delimiter mode
// inspects before splitting starts.
const sniffSample = 4096

var (
	prefix    string
	delimiter string
	chunkSize int
)

var rootCMD = &cobra.Command{
	Use:   "splitcsv [flags] <input>",
	Short: "Split a CSV file into per-column files",
	Long: `splitcsv - a tool for splitting CSV into column files.

Decomposes a CSV consisting of several columns into several files,
each containing a single column. The column files are themselves in
CSV format. Refer to RFC 4180 for details on the format this program
expects. Non-rectangular CSVs are handled by outputting blank lines
for the missing rows, so line N of every column file belongs to input
row N. Column files are named with a NNN.csv suffix, starting at 001.

Gzip, zstd and xz compressed inputs are detected by content and
decompressed on the fly.

Example usage:
  # Read a CSV file from stdin and write col001.csv, col002.csv, ...
  # to the current directory.
  splitcsv --prefix=col -

  # Split a file into an existing output directory, detecting the
  # field delimiter from the data.
  splitcsv --prefix=out/col --delimiter=auto data.csv`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCMD.Flags().StringVar(&prefix, "prefix", "",
		"prefix for all output file names; the column number and '.csv' are appended")
	rootCMD.Flags().StringVar(&delimiter, "delimiter", ",",
		"field delimiter: a single character, or 'auto' to detect it from the data")
	rootCMD.Flags().IntVar(&chunkSize, "chunk-size", colsplit.DefaultOptions().ChunkSize,
		"input window size in bytes")
}

func run(cmd *cobra.Command, args []string) error {
	opts := colsplit.DefaultOptions()
	opts.ChunkSize = chunkSize

	var src io.Reader
	if args[0] == "-" {
		src = os.Stdin
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input file: %w", err)
		}
		defer f.Close()
		src = f
	}

	r, err := input.NewReader(src)
	if err != nil {
		return err
	}

	switch {
	case delimiter == "auto":
		br := bufio.NewReaderSize(r, sniffSample)
		sample, err := br.Peek(sniffSample)
		if err != nil && err != io.EOF {
			return fmt.Errorf("sampling input: %w", err)
		}
		opts.Comma = colsplit.NewSniffer(string(sample)).DetectDelimiter()
		r = br
	case len(delimiter) == 1:
		opts.Comma = rune(delimiter[0])
	default:
		return fmt.Errorf("invalid delimiter %q: need a single character or 'auto'", delimiter)
	}

	_, err = colsplit.SplitWithOptions(r, colsplit.FileFactory(prefix), opts)
	return err
}

func main() {
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}
