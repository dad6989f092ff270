//go:build go1.18
// +build go1.18

package splitter

import (
	"testing"
)

// FuzzSplitter feeds random inputs through the splitter twice with
// very different window sizes and requires identical column output.
// Run with: go test -fuzz=FuzzSplitter -fuzztime=30s ./internal/splitter
func FuzzSplitter(f *testing.F) {
	// Seed corpus with valid and awkward CSV samples.
	seeds := []string{
		"",
		"a",
		"a,b,c",
		"a,b,c\n",
		"a,b\nc,d",
		"a,b\nc\n",
		"\"quoted\"",
		"\"with,comma\"",
		"\"with\"\"quote\"",
		"\"multi\nline\"",
		"a,\"b\",c",
		"\r\n",
		"a\r\nb",
		",,",
		"\"\"",
		"\"\"\"\"",
		"a,\"b,c\",d",
		"\"a\"\"b\"",
		"\"a\"\n",
		"\"unterminated",
		"a\"b,c",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// The splitter must never panic, and its output must not
		// depend on the window size: a 3-byte window suspends at
		// nearly every structural token.
		wide, wideStats, wideErr := splitString(input, 4096, 64)
		narrow, narrowStats, narrowErr := splitString(input, 3, 5)

		if (wideErr != nil) != (narrowErr != nil) {
			t.Fatalf("error depends on window size: wide=%v narrow=%v", wideErr, narrowErr)
		}
		if wideErr != nil {
			return
		}
		if wideStats != narrowStats {
			t.Fatalf("stats depend on window size: wide=%+v narrow=%+v", wideStats, narrowStats)
		}
		if len(wide) != len(narrow) {
			t.Fatalf("column count depends on window size: wide=%d narrow=%d", len(wide), len(narrow))
		}
		for i := range wide {
			if wide[i] != narrow[i] {
				t.Fatalf("column %d depends on window size: wide=%q narrow=%q", i, wide[i], narrow[i])
			}
		}
	})
}
