// Package processor defines the event consumer interface and the
// pipeline that fans each incoming event out to every active consumer.
package processor

import (
	"errors"

	"github.com/sd37/myetrace/internal/etw"
)

// ErrDescribedUnsupported is returned by processors that must only be
// invoked through HandleEvent. Calling their described form is a
// programming error on the caller's side, not a data condition.
var ErrDescribedUnsupported = errors.New("processor does not accept described events")

// Processor consumes every event in the stream, in arrival order,
// synchronously. HandleEvent and HandleDescribedEvent must not block on
// external I/O; they sit on the delivery path shared by all processors.
// Close flushes final output and is idempotent: calls after the first
// are no-ops.
type Processor interface {
	HandleEvent(ev *etw.Event) error
	HandleDescribedEvent(ev *etw.Event, description string) error
	Close() error
}
