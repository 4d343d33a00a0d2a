package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	defaultTableWidth = 80
	valueColumnWidth  = 14
	minKeyColumnWidth = 10
)

// TableSink renders reports as fixed-width two-column tables. The key
// column flexes to the detected terminal width; the value column is
// fixed and right-aligned.
type TableSink struct {
	w        io.Writer
	keyWidth int
}

// NewTableSink creates a table sink writing to w, sized for the current
// terminal (falls back to 80 columns when w is not a terminal).
func NewTableSink(w io.Writer) *TableSink {
	return &TableSink{
		w:        w,
		keyWidth: keyColumnWidth(detectTerminalWidth(w)),
	}
}

func detectTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultTableWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTableWidth
	}
	return width
}

func keyColumnWidth(totalWidth int) int {
	width := totalWidth - valueColumnWidth - 2
	if width < minKeyColumnWidth {
		width = minKeyColumnWidth
	}
	return width
}

// Begin writes the header line and the column label row.
func (s *TableSink) Begin(header, keyLabel, valueLabel string) {
	fmt.Fprintf(s.w, "\n%s\n", header)
	s.Row(keyLabel, valueLabel)
	fmt.Fprintf(s.w, "%s  %s\n",
		strings.Repeat("-", s.keyWidth),
		strings.Repeat("-", valueColumnWidth))
}

// Row writes one table row. Keys longer than the key column are
// truncated with an ellipsis.
func (s *TableSink) Row(key, value string) {
	if len(key) > s.keyWidth {
		key = key[:s.keyWidth-1] + "…"
	}
	fmt.Fprintf(s.w, "%-*s  %*s\n", s.keyWidth, key, valueColumnWidth, value)
}

// End terminates the table.
func (s *TableSink) End() {
	fmt.Fprintln(s.w)
}
