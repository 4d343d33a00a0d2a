package eventstream

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sd37/myetrace/internal/etw"
)

type collectingHandler struct {
	events []*etw.Event
}

func (h *collectingHandler) HandleEvent(ev *etw.Event) error {
	h.events = append(h.events, ev)
	return nil
}

func TestStream_DispatchesInArrivalOrder(t *testing.T) {
	input := strings.Join([]string{
		`{"name":"Request/Start","pid":10,"ts":1000,"fields":{"url":"/a","activityId":1}}`,
		`{"name":"Request/Stop","pid":10,"ts":2000,"fields":{"activityId":1}}`,
	}, "\n")

	handler := &collectingHandler{}
	stream := New(strings.NewReader(input), handler)

	require.NoError(t, stream.Run(context.Background()))

	require.Len(t, handler.events, 2)
	assert.Equal(t, etw.RequestStart, handler.events[0].Name)
	assert.Equal(t, etw.RequestStop, handler.events[1].Name)
	assert.Equal(t, uint64(1000), handler.events[0].Timestamp)
}

func TestStream_SkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"name":"A","pid":1,"ts":1}`,
		`this is not json`,
		``,
		`{"name":"B","pid":1,"ts":2}`,
	}, "\n")

	handler := &collectingHandler{}
	stream := New(strings.NewReader(input), handler)

	require.NoError(t, stream.Run(context.Background()))

	require.Len(t, handler.events, 2)
	assert.Equal(t, "A", handler.events[0].Name)
	assert.Equal(t, "B", handler.events[1].Name)
}

func TestStream_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := &collectingHandler{}
	stream := New(strings.NewReader(`{"name":"A","pid":1,"ts":1}`), handler)

	err := stream.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, handler.events)
}

func TestStream_StopHaltsRun(t *testing.T) {
	handler := &collectingHandler{}
	stream := New(strings.NewReader(`{"name":"A","pid":1,"ts":1}`), handler)
	stream.Stop()

	require.NoError(t, stream.Run(context.Background()))
	assert.Empty(t, handler.events)
}
