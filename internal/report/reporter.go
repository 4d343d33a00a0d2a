// Package report converts ranked aggregates into labeled row sequences
// and hands them to a rendering sink.
package report

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/sd37/myetrace/internal/aggregate"
)

// Sink renders a labeled table. Implementations own all glyph and
// column-width decisions; the reporter only guarantees row order and
// labeling.
type Sink interface {
	Begin(header, keyLabel, valueLabel string)
	Row(key, value string)
	End()
}

// ValueFormat renders an accumulated value for display.
type ValueFormat func(float64) string

// FormatCount renders an accumulated count with digit grouping.
func FormatCount(v float64) string {
	return humanize.Comma(int64(v))
}

// FormatMillis renders a duration in milliseconds with one fractional
// digit.
func FormatMillis(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Reporter walks an aggregate's ranked view and delegates rendering to
// its sink.
type Reporter struct {
	sink Sink
}

// New creates a Reporter over the given sink.
func New(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// Render emits the aggregate's entries in descending-value order under
// the given header and column labels.
func (r *Reporter) Render(agg *aggregate.Ranked, header, keyLabel, valueLabel string, format ValueFormat) {
	r.sink.Begin(header, keyLabel, valueLabel)
	for _, entry := range agg.Ranked() {
		r.sink.Row(entry.Key, format(entry.Value))
	}
	r.sink.End()
}
