// Package aggregate provides the key-to-accumulated-value mapping used
// by every counting and latency processor.
package aggregate

import (
	"sort"

	"github.com/samber/lo"
)

// Entry is one reported (key, value) pair.
type Entry struct {
	Key   string
	Value float64
}

// Ranked accumulates a float64 value per string key and reports entries
// in descending order of value. It provides no internal locking;
// callers own their instance exclusively (delivery is single-threaded).
type Ranked struct {
	values map[string]float64
	order  []string
}

// New creates an empty aggregate.
func New() *Ranked {
	return &Ranked{
		values: make(map[string]float64),
	}
}

// Add inserts key with value delta if absent, otherwise accumulates
// delta onto the existing value.
func (r *Ranked) Add(key string, delta float64) {
	if _, ok := r.values[key]; !ok {
		r.order = append(r.order, key)
	}
	r.values[key] += delta
}

// Get returns the accumulated value for key.
func (r *Ranked) Get(key string) (float64, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (r *Ranked) Len() int {
	return len(r.values)
}

// Merge accumulates every entry of other into r. Keys new to r adopt
// their insertion position at merge time.
func (r *Ranked) Merge(other *Ranked) {
	for _, key := range other.order {
		r.Add(key, other.values[key])
	}
}

// Ranked returns all entries sorted by value descending. Ties keep
// first-insertion order (stable sort). The returned slice is a
// snapshot; mutating it does not affect the aggregate.
func (r *Ranked) Ranked() []Entry {
	entries := lo.Map(r.order, func(key string, _ int) Entry {
		return Entry{Key: key, Value: r.values[key]}
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}
