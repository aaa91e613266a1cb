package sim

import "math"

// TiltCommand is the filter output for one sample.
type TiltCommand struct {
	Delta   float64 // Horizontal displacement for the catcher
	Facing  Facing
	Flipped bool // Facing changed on this sample
}

// TiltFilter turns raw tilt samples into catcher displacement.
// It is invoked only when a sample is available; without a sensor it is
// simply never called and the catcher stays put.
type TiltFilter struct {
	cfg      TiltConfig
	smoothed float64
	facing   Facing
}

// NewTiltFilter creates a filter facing right with no smoothing history.
func NewTiltFilter(cfg TiltConfig) *TiltFilter {
	return &TiltFilter{cfg: cfg}
}

// Apply consumes one raw horizontal sample.
func (f *TiltFilter) Apply(raw float64) TiltCommand {
	var signal, delta float64

	switch f.cfg.Mode {
	case TiltLowPass:
		if math.Abs(raw) < f.cfg.DeadZone {
			raw = 0
		}
		f.smoothed = f.cfg.Factor*f.smoothed + (1-f.cfg.Factor)*raw
		signal = f.smoothed
		delta = f.smoothed * f.cfg.MovementSpeed
	default:
		signal = raw
		delta = raw * f.cfg.Sensitivity
	}

	cmd := TiltCommand{Delta: delta, Facing: f.facing}
	if signal != 0 {
		next := FacingRight
		if signal < 0 {
			next = FacingLeft
		}
		if next != f.facing {
			f.facing = next
			cmd.Facing = next
			cmd.Flipped = true
		}
	}
	return cmd
}

// Smoothed returns the current low-pass state.
func (f *TiltFilter) Smoothed() float64 {
	return f.smoothed
}

// Facing returns the direction implied by the last nonzero signal.
func (f *TiltFilter) Facing() Facing {
	return f.facing
}

// Reset clears smoothing history and faces right again.
func (f *TiltFilter) Reset() {
	f.smoothed = 0
	f.facing = FacingRight
}
