package motion

import (
	"sync"
	"testing"
	"time"
)

func TestLatestTakeOnlyUnread(t *testing.T) {
	l := NewLatest()

	if _, ok := l.Take(); ok {
		t.Fatal("empty holder should have nothing to take")
	}

	l.Put(Sample{X: 0.1})
	l.Put(Sample{X: 0.2})
	s, ok := l.Take()
	if !ok || s.X != 0.2 {
		t.Fatalf("Take() = %+v, %v; expected newest sample", s, ok)
	}
	if s.Seq != 2 {
		t.Errorf("Seq = %d, expected 2", s.Seq)
	}
	if _, ok := l.Take(); ok {
		t.Error("second Take should report nothing new")
	}

	if p, ok := l.Peek(); !ok || p.X != 0.2 {
		t.Errorf("Peek() = %+v, %v", p, ok)
	}
}

func TestLatestAge(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLatest()
	l.now = func() time.Time { return now }

	if _, ok := l.Age(); ok {
		t.Fatal("Age should be unknown before any sample")
	}

	l.Put(Sample{X: 1})
	now = now.Add(150 * time.Millisecond)
	if age, ok := l.Age(); !ok || age != 150*time.Millisecond {
		t.Errorf("Age() = %v, %v; expected 150ms", age, ok)
	}
}

func TestLatestConcurrentWriters(t *testing.T) {
	l := NewLatest()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				l.Put(Sample{X: float64(i)})
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		var last uint64
		for i := 0; i < 1000; i++ {
			if s, ok := l.Take(); ok {
				if s.Seq <= last {
					t.Errorf("sequence went backwards: %d after %d", s.Seq, last)
					return
				}
				last = s.Seq
			}
		}
	}()

	wg.Wait()
	<-done

	s, _ := l.Peek()
	if s.Seq != 1000 {
		t.Errorf("final Seq = %d, expected 1000", s.Seq)
	}
}
