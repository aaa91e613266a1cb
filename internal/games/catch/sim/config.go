package sim

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every configuration rejection.
var ErrInvalidConfig = errors.New("sim: invalid config")

// TiltMode selects how raw tilt samples become catcher displacement.
type TiltMode int

const (
	// TiltDirect maps gravity tilt straight to displacement.
	TiltDirect TiltMode = iota
	// TiltLowPass dead-zones and smooths linear acceleration.
	TiltLowPass
)

func (m TiltMode) String() string {
	if m == TiltLowPass {
		return "lowpass"
	}
	return "direct"
}

// TiltConfig tunes the tilt filter.
type TiltConfig struct {
	Mode          TiltMode
	Sensitivity   float64 // Direct: displacement per unit of tilt
	DeadZone      float64 // LowPass: |raw| below this reads as zero
	Factor        float64 // LowPass: weight of the previous smoothed value, in (0,1)
	MovementSpeed float64 // LowPass: displacement per unit of smoothed signal
}

// Config holds every tunable of a session. Distances are arena points,
// the origin is bottom-left and Y grows upward.
type Config struct {
	ArenaWidth   float64
	ArenaHeight  float64
	GroundHeight float64

	CatcherWidth   float64
	CatcherHeight  float64
	CatcherPadding float64
	CatcherLift    float64

	ItemWidth  float64
	ItemHeight float64

	Gravity       float64 // Negative is down, in framework units
	PointsPerUnit float64

	Tilt TiltConfig

	SpawnInterval       time.Duration
	GoodPercent         int
	SpawnHeightFraction float64

	WinScore    int
	CatchPoints int
	MissPenalty int
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		ArenaWidth:     375,
		ArenaHeight:    667,
		GroundHeight:   2,
		CatcherWidth:   60,
		CatcherHeight:  30,
		CatcherPadding: 18,
		CatcherLift:    20,
		ItemWidth:      30,
		ItemHeight:     30,
		Gravity:        -3.0,
		PointsPerUnit:  150,
		Tilt: TiltConfig{
			Mode:          TiltLowPass,
			Sensitivity:   50,
			DeadZone:      0.02,
			Factor:        0.9,
			MovementSpeed: 200,
		},
		SpawnInterval:       2 * time.Second,
		GoodPercent:         80,
		SpawnHeightFraction: 0.9,
		WinScore:            10,
		CatchPoints:         1,
		MissPenalty:         1,
	}
}

// Validate rejects out-of-range values. Nothing is clamped.
func (c Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.ArenaWidth > 0 && c.ArenaHeight > 0, "arena size must be positive"},
		{c.GroundHeight >= 0, "ground height must not be negative"},
		{c.CatcherWidth > 0 && c.CatcherHeight > 0, "catcher size must be positive"},
		{c.CatcherWidth <= c.ArenaWidth, "catcher must fit in the arena"},
		{c.CatcherPadding >= 0 && c.CatcherPadding <= c.ArenaWidth/2, "catcher padding must be in [0, arena width/2]"},
		{c.CatcherLift >= 0, "catcher lift must not be negative"},
		{c.ItemWidth > 0 && c.ItemHeight > 0, "item size must be positive"},
		{c.ItemWidth <= c.ArenaWidth, "item must fit in the arena"},
		{c.Gravity < 0, "gravity must point down"},
		{c.PointsPerUnit > 0, "points per unit must be positive"},
		{c.Tilt.Mode == TiltDirect || c.Tilt.Mode == TiltLowPass, "unknown tilt mode"},
		{c.Tilt.Sensitivity >= 0, "tilt sensitivity must not be negative"},
		{c.Tilt.DeadZone >= 0, "tilt dead zone must not be negative"},
		{c.Tilt.MovementSpeed >= 0, "tilt movement speed must not be negative"},
		{c.Tilt.Mode != TiltLowPass || (c.Tilt.Factor > 0 && c.Tilt.Factor < 1), "tilt factor must be in (0,1)"},
		{c.SpawnInterval > 0, "spawn interval must be positive"},
		{c.SpawnHeightFraction > 0 && c.SpawnHeightFraction <= 1, "spawn height fraction must be in (0,1]"},
		{c.WinScore > 0, "win score must be positive"},
		{c.CatchPoints > 0, "catch points must be positive"},
		{c.MissPenalty >= 0, "miss penalty must not be negative"},
	}
	if c.GoodPercent < 0 || c.GoodPercent > 100 {
		return fmt.Errorf("%w: good percent must be in [0,100], got %d", ErrInvalidConfig, c.GoodPercent)
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, chk.msg)
		}
	}
	return nil
}

// gravityAccel is the downward acceleration in points per second squared.
func (c Config) gravityAccel() float64 {
	return c.Gravity * c.PointsPerUnit
}

// catcherY is the fixed center height of the catcher.
func (c Config) catcherY() float64 {
	return c.GroundHeight + c.CatcherLift + c.CatcherHeight/2
}

// spawnY is the center height at which items appear.
func (c Config) spawnY() float64 {
	return c.ArenaHeight * c.SpawnHeightFraction
}
