// Package etw defines the trace event representation consumed by the
// processing core. Events are produced by an external session/replay
// boundary and are never mutated once delivered.
package etw

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Well-known event names emitted by the HTTP request provider.
const (
	RequestStart = "Request/Start"
	RequestStop  = "Request/Stop"
)

// Well-known payload field names.
const (
	FieldURL        = "url"
	FieldActivityID = "activityId"
)

// Event is a single trace record: who emitted it, when, and a bag of
// provider-specific payload fields. Timestamp is monotonic nanoseconds
// since session start.
type Event struct {
	Name      string         `json:"name"`
	ProcessID uint32         `json:"pid"`
	Timestamp uint64         `json:"ts"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Field returns the raw payload field value, if present.
func (e *Event) Field(name string) (any, bool) {
	if e.Fields == nil {
		return nil, false
	}
	v, ok := e.Fields[name]
	return v, ok
}

// StringField returns a payload field as a string.
func (e *Event) StringField(name string) (string, bool) {
	v, ok := e.Field(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Uint64Field returns a payload field as a uint64. JSON decoding
// delivers numbers as float64, so the numeric kinds seen in replay
// files are all accepted.
func (e *Event) Uint64Field(name string) (uint64, bool) {
	v, ok := e.Field(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case string:
		parsed, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Describe renders the event as a single human-readable line. Field
// order is sorted by name so the rendering is deterministic.
func (e *Event) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s pid=%d ts=%d", e.Name, e.ProcessID, e.Timestamp)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields[name])
	}
	return b.String()
}
