package processor

import (
	"strconv"

	"github.com/sd37/myetrace/internal/aggregate"
	"github.com/sd37/myetrace/internal/etw"
	"github.com/sd37/myetrace/internal/procscope"
	"github.com/sd37/myetrace/internal/report"
)

// CountProcessor counts events grouped by a key derived from each
// event, within the configured process scope.
type CountProcessor struct {
	keyOf    func(*etw.Event) string
	scope    *procscope.Filter
	counts   *aggregate.Ranked
	reporter *report.Reporter
	header   string
	keyLabel string
	closed   bool
}

// NewCountByName counts events per event name.
func NewCountByName(scope *procscope.Filter, reporter *report.Reporter) *CountProcessor {
	return &CountProcessor{
		keyOf:    func(ev *etw.Event) string { return ev.Name },
		scope:    scope,
		counts:   aggregate.New(),
		reporter: reporter,
		header:   "Events by name",
		keyLabel: "event",
	}
}

// NewCountByProcess counts events per originating process.
func NewCountByProcess(scope *procscope.Filter, reporter *report.Reporter) *CountProcessor {
	return &CountProcessor{
		keyOf:    func(ev *etw.Event) string { return strconv.FormatUint(uint64(ev.ProcessID), 10) },
		scope:    scope,
		counts:   aggregate.New(),
		reporter: reporter,
		header:   "Events by process",
		keyLabel: "pid",
	}
}

// HandleEvent increments the count for the event's derived key.
func (c *CountProcessor) HandleEvent(ev *etw.Event) error {
	if !c.scope.Matches(ev.ProcessID) {
		return nil
	}
	c.counts.Add(c.keyOf(ev), 1)
	return nil
}

// HandleDescribedEvent ignores the description.
func (c *CountProcessor) HandleDescribedEvent(ev *etw.Event, _ string) error {
	return c.HandleEvent(ev)
}

// Close renders the final counts. Subsequent calls are no-ops.
func (c *CountProcessor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.reporter.Render(c.counts, c.header, c.keyLabel, "count", report.FormatCount)
	return nil
}
