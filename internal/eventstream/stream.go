// Package eventstream reads serialized trace events from a reader and
// dispatches them to a handler, one fully-processed event at a time.
package eventstream

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log"

	"github.com/sd37/myetrace/internal/etw"
)

// Handler receives each decoded event in arrival order.
type Handler interface {
	HandleEvent(ev *etw.Event) error
}

// Stream reads JSON-lines trace events and dispatches them to a
// handler. Lines that fail to decode are logged and skipped; the
// stream keeps going.
type Stream struct {
	r       io.Reader
	handler Handler
	stopCh  chan struct{}
}

// New creates a Stream over the given reader and handler.
func New(r io.Reader, handler Handler) *Stream {
	return &Stream{
		r:       r,
		handler: handler,
		stopCh:  make(chan struct{}),
	}
}

// Stop signals Run to return after the event in flight.
func (s *Stream) Stop() {
	close(s.stopCh)
}

// Run reads and dispatches events until the reader is exhausted, the
// context is cancelled, or Stop is called. Each event is handled to
// completion before the next line is read.
func (s *Stream) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event etw.Event
		if err := json.Unmarshal(line, &event); err != nil {
			log.Printf("parsing event: %v", err)
			continue
		}

		if err := s.handler.HandleEvent(&event); err != nil {
			log.Printf("handling event: %v", err)
		}
	}
	return scanner.Err()
}
