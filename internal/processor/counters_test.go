package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sd37/myetrace/internal/config"
	"github.com/sd37/myetrace/internal/etw"
	"github.com/sd37/myetrace/internal/procscope"
	"github.com/sd37/myetrace/internal/report"
)

type captureSink struct {
	header string
	rows   [][2]string
	begins int
}

func (s *captureSink) Begin(header, _, _ string) {
	s.header = header
	s.begins++
}

func (s *captureSink) Row(key, value string) {
	s.rows = append(s.rows, [2]string{key, value})
}

func (s *captureSink) End() {}

func namedEvent(name string, pid uint32) *etw.Event {
	return &etw.Event{Name: name, ProcessID: pid, Timestamp: 1}
}

func TestCountByName(t *testing.T) {
	sink := &captureSink{}
	c := NewCountByName(procscope.New(nil), report.New(sink))

	require.NoError(t, c.HandleEvent(namedEvent("GC/Start", 1)))
	require.NoError(t, c.HandleEvent(namedEvent("GC/Start", 2)))
	require.NoError(t, c.HandleEvent(namedEvent("GC/Stop", 1)))
	require.NoError(t, c.Close())

	require.Len(t, sink.rows, 2)
	assert.Equal(t, [2]string{"GC/Start", "2"}, sink.rows[0])
	assert.Equal(t, [2]string{"GC/Stop", "1"}, sink.rows[1])
	assert.Equal(t, "Events by name", sink.header)
}

func TestCountByProcess(t *testing.T) {
	sink := &captureSink{}
	c := NewCountByProcess(procscope.New(nil), report.New(sink))

	require.NoError(t, c.HandleEvent(namedEvent("A", 7)))
	require.NoError(t, c.HandleEvent(namedEvent("B", 7)))
	require.NoError(t, c.HandleEvent(namedEvent("C", 9)))
	require.NoError(t, c.Close())

	require.Len(t, sink.rows, 2)
	assert.Equal(t, [2]string{"7", "2"}, sink.rows[0])
	assert.Equal(t, [2]string{"9", "1"}, sink.rows[1])
}

func TestCountProcessor_RespectsProcessScope(t *testing.T) {
	sink := &captureSink{}
	scope := procscope.New([]config.Filter{{Key: "ProcessId", Value: "7"}})
	c := NewCountByName(scope, report.New(sink))

	require.NoError(t, c.HandleEvent(namedEvent("A", 7)))
	require.NoError(t, c.HandleEvent(namedEvent("A", 8)))
	require.NoError(t, c.Close())

	require.Len(t, sink.rows, 1)
	assert.Equal(t, [2]string{"A", "1"}, sink.rows[0])
}

func TestCountProcessor_CloseIsIdempotent(t *testing.T) {
	sink := &captureSink{}
	c := NewCountByName(procscope.New(nil), report.New(sink))

	require.NoError(t, c.HandleEvent(namedEvent("A", 1)))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.Equal(t, 1, sink.begins)
	assert.Len(t, sink.rows, 1)
}
