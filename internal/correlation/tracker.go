// Package correlation pairs begin/end HTTP request events by activity
// id and turns each resolved pair into a call-count or latency sample.
package correlation

import (
	"fmt"

	"github.com/sd37/myetrace/internal/aggregate"
	"github.com/sd37/myetrace/internal/etw"
	"github.com/sd37/myetrace/internal/procscope"
	"github.com/sd37/myetrace/internal/report"
)

// Mode selects what the tracker aggregates.
type Mode int

const (
	// ModeCounts counts qualifying begins per normalized operation.
	ModeCounts Mode = iota
	// ModeLatency measures begin-to-end elapsed time per operation.
	ModeLatency
)

// ResolutionObserver is notified for every resolved begin/end pair.
// Used to mirror resolutions into external systems (span export).
type ResolutionObserver interface {
	ObserveResolved(operationKey string, correlationID uint64, pid uint32, startNanos, endNanos uint64)
}

// pendingRequest is the per-correlation-id state captured at begin and
// consumed by the matching end.
type pendingRequest struct {
	pid     uint32
	key     string
	startTs uint64
}

// Tracker observes Request/Start and Request/Stop events sharing an
// activity id and aggregates either call counts or latencies, scoped by
// the process filter. Pendings are keyed by activity id, so concurrent
// in-flight requests never misattribute to each other. A second begin
// with an id already pending replaces the earlier one (last begin
// wins); its elapsed time is never reported. Pendings still open at
// Close are dropped without a sample.
type Tracker struct {
	mode      Mode
	scope     *procscope.Filter
	agg       *aggregate.Ranked
	pending   map[uint64]pendingRequest
	reporter  *report.Reporter
	observers []ResolutionObserver
	closed    bool
}

// NewTracker creates a tracker in the given mode.
func NewTracker(mode Mode, scope *procscope.Filter, reporter *report.Reporter, observers ...ResolutionObserver) *Tracker {
	return &Tracker{
		mode:      mode,
		scope:     scope,
		agg:       aggregate.New(),
		pending:   make(map[uint64]pendingRequest),
		reporter:  reporter,
		observers: observers,
	}
}

// HandleEvent updates correlation state for request begin/end events.
// Events of any other name are ignored.
func (t *Tracker) HandleEvent(ev *etw.Event) error {
	switch ev.Name {
	case etw.RequestStart:
		t.handleBegin(ev)
	case etw.RequestStop:
		t.handleEnd(ev)
	}
	return nil
}

// HandleDescribedEvent ignores the description.
func (t *Tracker) HandleDescribedEvent(ev *etw.Event, _ string) error {
	return t.HandleEvent(ev)
}

func (t *Tracker) handleBegin(ev *etw.Event) {
	if !t.scope.Matches(ev.ProcessID) {
		return
	}
	uri, ok := ev.StringField(etw.FieldURL)
	if !ok {
		return
	}
	correlationID, ok := ev.Uint64Field(etw.FieldActivityID)
	if !ok {
		return
	}

	key := NormalizeOperation(uri)

	if t.mode == ModeCounts {
		// Counts mode samples every qualifying begin, resolved or not.
		t.agg.Add(key, 1)
	}

	t.pending[correlationID] = pendingRequest{
		pid:     ev.ProcessID,
		key:     key,
		startTs: ev.Timestamp,
	}
}

func (t *Tracker) handleEnd(ev *etw.Event) {
	if !t.scope.Matches(ev.ProcessID) {
		return
	}
	correlationID, ok := ev.Uint64Field(etw.FieldActivityID)
	if !ok {
		return
	}

	// An end with no pending begin is a legitimately lost partial pair
	// at a stream boundary, not an error.
	pending, ok := t.pending[correlationID]
	if !ok || pending.key == "" {
		return
	}
	delete(t.pending, correlationID)

	if t.mode == ModeLatency {
		// Out-of-order delivery can put the end before the begin;
		// negative elapsed times clamp to zero.
		var elapsedNanos uint64
		if ev.Timestamp > pending.startTs {
			elapsedNanos = ev.Timestamp - pending.startTs
		}
		elapsedMs := float64(elapsedNanos) / 1e6

		sampleKey := fmt.Sprintf("%s|%d|%d", pending.key, correlationID, pending.pid)
		t.agg.Add(sampleKey, elapsedMs)
	}

	for _, obs := range t.observers {
		obs.ObserveResolved(pending.key, correlationID, pending.pid, pending.startTs, ev.Timestamp)
	}
}

// Pending returns the number of unresolved begins, for tests and
// diagnostics.
func (t *Tracker) Pending() int {
	return len(t.pending)
}

// Close renders the final aggregate and abandons any still-pending
// correlations. Idempotent.
func (t *Tracker) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.pending = nil

	switch t.mode {
	case ModeCounts:
		t.reporter.Render(t.agg, "HTTP calls", "url", "calls", report.FormatCount)
	case ModeLatency:
		t.reporter.Render(t.agg, "HTTP call latencies", "url|activity|pid", "ms", report.FormatMillis)
	}
	return nil
}
