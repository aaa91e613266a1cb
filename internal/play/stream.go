package play

import (
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/tilt-catch/internal/games/catch/sim"
)

// EventStream delivers simulation events to one consumer without ever
// blocking the tick loop. When the buffer is full the oldest event is
// dropped.
type EventStream struct {
	events   chan sim.Event
	done     chan struct{}
	doneOnce sync.Once
	dropped  atomic.Uint64
}

// NewEventStream creates a stream buffering up to size events.
func NewEventStream(size int) *EventStream {
	if size < 1 {
		size = 256
	}
	return &EventStream{
		events: make(chan sim.Event, size),
		done:   make(chan struct{}),
	}
}

// Send queues an event. It never blocks.
func (s *EventStream) Send(e sim.Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- e:
	default:
		select {
		case <-s.events:
			s.dropped.Add(1)
		default:
		}
		select {
		case s.events <- e:
		default:
			s.dropped.Add(1)
		}
	}
}

// Events returns the channel to read from.
func (s *EventStream) Events() <-chan sim.Event {
	return s.events
}

// Done is closed by Close.
func (s *EventStream) Done() <-chan struct{} {
	return s.done
}

// Close marks the stream finished. Safe to call more than once.
func (s *EventStream) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Dropped returns how many events were discarded.
func (s *EventStream) Dropped() uint64 {
	return s.dropped.Load()
}
