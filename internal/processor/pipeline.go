package processor

import (
	"log"

	"github.com/sd37/myetrace/internal/etw"
)

type registration struct {
	proc      Processor
	described bool
}

// Pipeline delivers each event to all registered processors, one event
// fully processed before the next is admitted. A failing processor is
// logged and skipped for that event; delivery to the remaining
// processors continues.
type Pipeline struct {
	procs  []registration
	closed bool
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Add registers a processor that receives events without descriptions.
func (p *Pipeline) Add(proc Processor) {
	p.procs = append(p.procs, registration{proc: proc})
}

// AddDescribed registers a processor that receives each event together
// with its precomputed description. The description is rendered at most
// once per event, however many described processors are registered.
func (p *Pipeline) AddDescribed(proc Processor) {
	p.procs = append(p.procs, registration{proc: proc, described: true})
}

// Len returns the number of registered processors.
func (p *Pipeline) Len() int {
	return len(p.procs)
}

// HandleEvent fans the event out to every registered processor.
func (p *Pipeline) HandleEvent(ev *etw.Event) error {
	var description string
	described := false

	for _, reg := range p.procs {
		var err error
		if reg.described {
			if !described {
				description = ev.Describe()
				described = true
			}
			err = reg.proc.HandleDescribedEvent(ev, description)
		} else {
			err = reg.proc.HandleEvent(ev)
		}
		if err != nil {
			log.Printf("processor error on %s: %v", ev.Name, err)
		}
	}
	return nil
}

// Close closes every registered processor exactly once, in
// registration order. Errors are logged; all processors are closed
// regardless.
func (p *Pipeline) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	for _, reg := range p.procs {
		if err := reg.proc.Close(); err != nil {
			log.Printf("closing processor: %v", err)
		}
	}
	return nil
}
