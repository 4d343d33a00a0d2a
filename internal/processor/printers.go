package processor

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sd37/myetrace/internal/attributes"
	"github.com/sd37/myetrace/internal/etw"
	"github.com/sd37/myetrace/internal/timesync"
)

// RawPrinter prints each event as a single descriptive line. It is the
// default consumer when no aggregation mode is selected.
type RawPrinter struct {
	w      io.Writer
	closed bool
}

// NewRawPrinter creates a raw printer writing to w.
func NewRawPrinter(w io.Writer) *RawPrinter {
	return &RawPrinter{w: w}
}

// HandleEvent renders the event description itself.
func (p *RawPrinter) HandleEvent(ev *etw.Event) error {
	fmt.Fprintln(p.w, ev.Describe())
	return nil
}

// HandleDescribedEvent prints the precomputed description.
func (p *RawPrinter) HandleDescribedEvent(_ *etw.Event, description string) error {
	fmt.Fprintln(p.w, description)
	return nil
}

// Close has no final output to flush.
func (p *RawPrinter) Close() error {
	p.closed = true
	return nil
}

// Builtin column names understood by the tabular printer. Anything else
// is looked up in the event's payload fields.
const (
	columnName = "name"
	columnPID  = "pid"
	columnTime = "time"
)

func builtinColumnWidth(field string) int {
	switch field {
	case columnName:
		return 28
	case columnPID:
		return 8
	case columnTime:
		return 14
	default:
		return 24
	}
}

// TablePrinter prints one row of selected fields per event, plus any
// configured computed columns. It must be driven through HandleEvent;
// the described form is rejected.
type TablePrinter struct {
	w          io.Writer
	fields     []string
	eval       *attributes.Evaluator
	conv       *timesync.Converter
	headerDone bool
	closed     bool
}

// NewTablePrinter creates a tabular printer for the given field list
// and computed columns.
func NewTablePrinter(w io.Writer, fields []string, eval *attributes.Evaluator, conv *timesync.Converter) *TablePrinter {
	return &TablePrinter{
		w:      w,
		fields: fields,
		eval:   eval,
		conv:   conv,
	}
}

// HandleEvent writes the header row on first use, then one row per
// event.
func (p *TablePrinter) HandleEvent(ev *etw.Event) error {
	if !p.headerDone {
		p.writeHeader()
		p.headerDone = true
	}

	cells := make([]string, 0, len(p.fields)+p.eval.Len())
	for _, field := range p.fields {
		cells = append(cells, p.cell(ev, field))
	}
	cells = append(cells, p.eval.Evaluate(ev)...)

	p.writeRow(cells)
	return nil
}

// HandleDescribedEvent is not supported; the tabular printer renders
// events from their fields, never from a description.
func (p *TablePrinter) HandleDescribedEvent(_ *etw.Event, _ string) error {
	return ErrDescribedUnsupported
}

// Close has nothing buffered to flush.
func (p *TablePrinter) Close() error {
	p.closed = true
	return nil
}

func (p *TablePrinter) cell(ev *etw.Event, field string) string {
	switch field {
	case columnName:
		return ev.Name
	case columnPID:
		return strconv.FormatUint(uint64(ev.ProcessID), 10)
	case columnTime:
		return p.conv.ToWallClock(ev.Timestamp).Format("15:04:05.000")
	default:
		if v, ok := ev.Field(field); ok {
			return fmt.Sprint(v)
		}
		return ""
	}
}

func (p *TablePrinter) writeHeader() {
	labels := make([]string, 0, len(p.fields)+p.eval.Len())
	labels = append(labels, p.fields...)
	labels = append(labels, p.eval.Names()...)
	p.writeRow(labels)

	rules := make([]string, len(labels))
	for i, label := range labels {
		width := builtinColumnWidth(label)
		if i < len(p.fields) {
			width = builtinColumnWidth(p.fields[i])
		}
		rules[i] = strings.Repeat("-", width)
	}
	p.writeRow(rules)
}

func (p *TablePrinter) writeRow(cells []string) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := 24
		if i < len(p.fields) {
			width = builtinColumnWidth(p.fields[i])
		}
		if len(cell) > width {
			cell = cell[:width-1] + "…"
		}
		parts[i] = fmt.Sprintf("%-*s", width, cell)
	}
	fmt.Fprintln(p.w, strings.TrimRight(strings.Join(parts, " "), " "))
}
