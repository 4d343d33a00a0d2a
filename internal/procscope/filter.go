// Package procscope evaluates the optional process-id filter applied to
// aggregating processors.
package procscope

import (
	"strconv"
	"strings"

	"github.com/sd37/myetrace/internal/config"
)

// The only filter key this package recognizes. Other filter kinds
// belong to the option-parsing subsystem and pass through as match-all.
const processIDKey = "ProcessId"

// Filter matches events against an optional ProcessId filter. The zero
// value matches every process.
type Filter struct {
	pid    string
	active bool
}

// New builds a Filter from the parsed filter list. Only the first entry
// is consulted, and only when its key is the process-id discriminator.
func New(filters []config.Filter) *Filter {
	if len(filters) == 0 {
		return &Filter{}
	}
	first := filters[0]
	if !strings.EqualFold(first.Key, processIDKey) {
		return &Filter{}
	}
	return &Filter{pid: first.Value, active: true}
}

// Matches reports whether an event from the given process is in scope.
// Comparison is string-normalized against the configured value.
func (f *Filter) Matches(pid uint32) bool {
	if !f.active {
		return true
	}
	return f.pid == strconv.FormatUint(uint64(pid), 10)
}
