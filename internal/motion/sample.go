// Package motion carries phone tilt samples into the game: a latest-wins
// sample holder, the JSON envelope protocol and a websocket sensor server.
package motion

import (
	"sync"
	"time"
)

// Sample is one accelerometer reading. X is the horizontal tilt the game
// steers with.
type Sample struct {
	X, Y, Z float64
	Seq     uint64    // Stamped by Latest, starts at 1
	At      time.Time // Arrival time
}

// Source hands out the newest sample the reader has not seen yet.
type Source interface {
	Take() (Sample, bool)
}

// Latest holds only the most recent sample. Writers overwrite, readers
// never block, and nothing queues up behind a slow reader.
type Latest struct {
	mu     sync.Mutex
	sample Sample
	seq    uint64
	read   uint64
	now    func() time.Time
}

// NewLatest creates an empty holder.
func NewLatest() *Latest {
	return &Latest{now: time.Now}
}

// Put replaces the held sample and returns it with Seq and At stamped.
func (l *Latest) Put(s Sample) Sample {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	s.Seq = l.seq
	if s.At.IsZero() {
		s.At = l.now()
	}
	l.sample = s
	return s
}

// Take returns the held sample if it arrived after the previous Take.
func (l *Latest) Take() (Sample, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seq == 0 || l.seq == l.read {
		return Sample{}, false
	}
	l.read = l.seq
	return l.sample, true
}

// Peek returns the held sample without marking it read.
func (l *Latest) Peek() (Sample, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sample, l.seq > 0
}

// Age reports how long ago the held sample arrived. ok is false when
// nothing has arrived yet.
func (l *Latest) Age() (age time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seq == 0 {
		return 0, false
	}
	return l.now().Sub(l.sample.At), true
}
