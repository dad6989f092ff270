package colsplit

import (
	"fmt"
	"io"
	"os"
)

// FileFactory returns a WriterFactory that creates one file per
// column, named <prefix><number>.csv with the column number
// zero-padded to three digits. Numbering starts at 001 for the first
// discovered column. Existing files are truncated.
//
// The prefix may carry a directory part ("out/col" produces
// out/col001.csv); the directory must already exist.
func FileFactory(prefix string) WriterFactory {
	return func(index int) (io.WriteCloser, error) {
		path := fmt.Sprintf("%s%03d.csv", prefix, index+1)
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating column file: %w", err)
		}
		return f, nil
	}
}
