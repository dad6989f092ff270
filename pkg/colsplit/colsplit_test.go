package colsplit

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

type memColumn struct {
	bytes.Buffer
	closed bool
}

func (c *memColumn) Close() error {
	c.closed = true
	return nil
}

func memFactory(cols *[]*memColumn) WriterFactory {
	return func(index int) (io.WriteCloser, error) {
		c := &memColumn{}
		*cols = append(*cols, c)
		return c, nil
	}
}

func TestSplit(t *testing.T) {
	var cols []*memColumn
	res, err := Split(strings.NewReader("a,b\nc,d\n"), memFactory(&cols))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if res.Rows != 2 || res.Columns != 2 {
		t.Errorf("Result = %+v, want 2 rows, 2 columns", res)
	}
	want := []string{"a\nc\n", "b\nd\n"}
	for i, c := range cols {
		if c.String() != want[i] {
			t.Errorf("column %d = %q, want %q", i, c.String(), want[i])
		}
		if !c.closed {
			t.Errorf("column %d not closed", i)
		}
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	var cols []*memColumn
	res, err := Split(strings.NewReader(""), memFactory(&cols))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if res.Rows != 0 || res.Columns != 0 {
		t.Errorf("Result = %+v, want zero", res)
	}
	if len(cols) != 0 {
		t.Errorf("factory invoked %d times for empty input", len(cols))
	}
}

func TestSplit_CustomDelimiter(t *testing.T) {
	opts := DefaultOptions()
	opts.Comma = '\t'

	var cols []*memColumn
	_, err := SplitWithOptions(strings.NewReader("a\tb\nc\td\n"), memFactory(&cols), opts)
	if err != nil {
		t.Fatalf("SplitWithOptions() error = %v", err)
	}
	want := []string{"a\nc\n", "b\nd\n"}
	for i, c := range cols {
		if c.String() != want[i] {
			t.Errorf("column %d = %q, want %q", i, c.String(), want[i])
		}
	}
}

func TestSplit_SyntaxError(t *testing.T) {
	var cols []*memColumn
	_, err := Split(strings.NewReader("a,\"unterminated"), memFactory(&cols))
	if !errors.Is(err, ErrUnterminatedQuote) {
		t.Fatalf("Split() error = %v, want ErrUnterminatedQuote", err)
	}

	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("error %v is not a *SyntaxError", err)
	}
	if serr.Row != 1 || serr.Column != 2 {
		t.Errorf("position = row %d, column %d, want row 1, column 2", serr.Row, serr.Column)
	}

	// Writers are still closed after a failed run.
	for i, c := range cols {
		if !c.closed {
			t.Errorf("column %d not closed after error", i)
		}
	}
}

func TestSplit_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Comma = '\n'

	var cols []*memColumn
	_, err := SplitWithOptions(strings.NewReader("a"), memFactory(&cols), opts)
	var oerr *OptionsError
	if !errors.As(err, &oerr) {
		t.Fatalf("error = %v, want *OptionsError", err)
	}
	if oerr.Field != "Comma" {
		t.Errorf("Field = %q, want Comma", oerr.Field)
	}
}

func TestSplitFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(in, []byte("a,b\nc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	prefix := filepath.Join(dir, "col")
	res, err := SplitFile(in, prefix)
	if err != nil {
		t.Fatalf("SplitFile() error = %v", err)
	}
	if res.Columns != 2 {
		t.Fatalf("Columns = %d, want 2", res.Columns)
	}

	assertFile(t, prefix+"001.csv", "a\nc\n")
	assertFile(t, prefix+"002.csv", "b\n\n")
}

func TestSplitFile_Gzip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.csv.gz")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("x,y\n1,2\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(in, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	prefix := filepath.Join(dir, "col")
	res, err := SplitFile(in, prefix)
	if err != nil {
		t.Fatalf("SplitFile() error = %v", err)
	}
	if res.Rows != 2 || res.Columns != 2 {
		t.Fatalf("Result = %+v, want 2 rows, 2 columns", res)
	}

	assertFile(t, prefix+"001.csv", "x\n1\n")
	assertFile(t, prefix+"002.csv", "y\n2\n")
}

func TestSplitFile_MissingInput(t *testing.T) {
	_, err := SplitFile(filepath.Join(t.TempDir(), "nope.csv"), "out")
	if err == nil {
		t.Fatal("SplitFile() on a missing file succeeded")
	}
}

func TestFileFactory_Naming(t *testing.T) {
	dir := t.TempDir()
	factory := FileFactory(filepath.Join(dir, "part-"))

	w, err := factory(0)
	if err != nil {
		t.Fatalf("factory(0) error = %v", err)
	}
	if _, err := w.Write([]byte("v\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// Numbering is 1-based and zero-padded to three digits.
	assertFile(t, filepath.Join(dir, "part-001.csv"), "v\n")
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(got) != want {
		t.Errorf("%s = %q, want %q", filepath.Base(path), got, want)
	}
}
