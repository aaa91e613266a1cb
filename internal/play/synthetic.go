package play

import (
	"math"

	"github.com/vovakirdan/tilt-catch/internal/motion"
)

// SineSource is a motion.Source producing a fresh sample on every Take,
// swinging between -Amplitude and +Amplitude over Period takes. It stands
// in for a phone in headless runs.
type SineSource struct {
	Amplitude float64
	Period    int

	n uint64
}

// Take returns the next sample on the wave.
func (s *SineSource) Take() (motion.Sample, bool) {
	period := s.Period
	if period <= 0 {
		period = 120
	}
	s.n++
	x := s.Amplitude * math.Sin(2*math.Pi*float64(s.n)/float64(period))
	return motion.Sample{X: x, Seq: s.n}, true
}
