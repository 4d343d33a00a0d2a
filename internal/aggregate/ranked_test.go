package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRanked_AddAccumulates(t *testing.T) {
	r := New()
	r.Add("a", 1)
	r.Add("b", 2.5)
	r.Add("a", 3)
	r.Add("a", 0.5)

	v, ok := r.Get("a")
	require.True(t, ok)
	assert.InDelta(t, 4.5, v, 1e-9)

	v, ok = r.Get("b")
	require.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)

	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())
}

func TestRanked_RankedDescending(t *testing.T) {
	r := New()
	r.Add("low", 1)
	r.Add("high", 10)
	r.Add("mid", 5)

	entries := r.Ranked()
	require.Len(t, entries, 3)
	assert.Equal(t, "high", entries[0].Key)
	assert.Equal(t, "mid", entries[1].Key)
	assert.Equal(t, "low", entries[2].Key)
}

func TestRanked_TiesKeepInsertionOrder(t *testing.T) {
	r := New()
	r.Add("first", 3)
	r.Add("second", 3)
	r.Add("third", 3)
	r.Add("winner", 7)

	entries := r.Ranked()
	require.Len(t, entries, 4)
	assert.Equal(t, "winner", entries[0].Key)
	assert.Equal(t, "first", entries[1].Key)
	assert.Equal(t, "second", entries[2].Key)
	assert.Equal(t, "third", entries[3].Key)
}

func TestRanked_RankedDoesNotMutate(t *testing.T) {
	r := New()
	r.Add("a", 1)
	r.Add("b", 2)

	first := r.Ranked()
	second := r.Ranked()
	assert.Equal(t, first, second)

	// Snapshot: mutating the returned slice leaves the aggregate alone.
	first[0].Value = 99
	v, _ := r.Get("b")
	assert.InDelta(t, 2, v, 1e-9)
}

func TestRanked_Merge(t *testing.T) {
	r := New()
	r.Add("a", 1)
	r.Add("b", 2)

	other := New()
	other.Add("b", 3)
	other.Add("c", 4)

	r.Merge(other)

	entries := r.Ranked()
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Key: "b", Value: 5}, entries[0])
	assert.Equal(t, Entry{Key: "c", Value: 4}, entries[1])
	assert.Equal(t, Entry{Key: "a", Value: 1}, entries[2])
}
