// Package timesync converts session-relative monotonic timestamps to
// wall-clock time.
package timesync

import "time"

// Converter handles conversion from monotonic event timestamps
// (nanoseconds since session start) to wall-clock time.
type Converter struct {
	sessionStart time.Time
}

// NewConverter creates a converter anchored at the given session start.
// A zero sessionStart anchors at the current time, which is the right
// choice for live sessions.
func NewConverter(sessionStart time.Time) *Converter {
	if sessionStart.IsZero() {
		sessionStart = time.Now()
	}
	return &Converter{sessionStart: sessionStart}
}

// ToWallClock converts a monotonic timestamp (nanoseconds since session
// start) to wall-clock time. Pure function over the anchor captured at
// construction.
func (c *Converter) ToWallClock(monotonicNanos uint64) time.Time {
	//nolint:gosec // uint64 to int64 conversion for time.Duration is safe for reasonable timestamps
	return c.sessionStart.Add(time.Duration(monotonicNanos))
}

// SessionStart returns the anchor time used for conversions.
func (c *Converter) SessionStart() time.Time {
	return c.sessionStart
}
