// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

import "errors"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Tilt filter modes.
const (
	TiltModeDirect  = "direct"
	TiltModeLowPass = "lowpass"
)

// CatchConfig contains all configuration for the catch game.
// Distances are arena points, the arena origin is bottom-left.
type CatchConfig struct {
	Arena      CatchArena       `yaml:"arena"`
	Catcher    CatchCatcher     `yaml:"catcher"`
	Items      CatchItems       `yaml:"items"`
	Physics    CatchPhysics     `yaml:"physics"`
	Tilt       CatchTilt        `yaml:"tilt"`
	Spawn      CatchSpawn       `yaml:"spawn"`
	Scoring    CatchScoring     `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// CatchArena defines the play area.
type CatchArena struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundHeight float64 `yaml:"ground_height"`
}

// CatchCatcher defines the player-controlled catcher.
type CatchCatcher struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Padding float64 `yaml:"padding"` // Minimum distance from center to arena edge
	Lift    float64 `yaml:"lift"`    // Gap between ground top and catcher bottom
}

// CatchItems defines falling item bounds.
type CatchItems struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// CatchPhysics defines falling physics.
type CatchPhysics struct {
	Gravity       float64 `yaml:"gravity"`         // Framework gravity units, negative is down
	PointsPerUnit float64 `yaml:"points_per_unit"` // Arena points per gravity unit
}

// CatchTilt defines the tilt input filter.
type CatchTilt struct {
	Mode             string  `yaml:"mode"` // "direct" or "lowpass"
	Sensitivity      float64 `yaml:"sensitivity"`
	DeadZone         float64 `yaml:"dead_zone"`
	Factor           float64 `yaml:"factor"`
	MovementSpeed    float64 `yaml:"movement_speed"`
	SampleIntervalMS int     `yaml:"sample_interval_ms"`
	KeyTilt          float64 `yaml:"key_tilt"` // Sample injected per arrow key press
}

// CatchSpawn defines the spawn scheduler.
type CatchSpawn struct {
	IntervalSeconds float64 `yaml:"interval_seconds"`
	GoodPercent     int     `yaml:"good_percent"`
	HeightFraction  float64 `yaml:"height_fraction"`
}

// CatchScoring defines score deltas and the win threshold.
type CatchScoring struct {
	WinScore    int `yaml:"win_score"`
	CatchPoints int `yaml:"catch_points"`
	MissPenalty int `yaml:"miss_penalty"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes at level 1.0.
type ScalingConfig struct {
	SpeedMultiplier      float64 `yaml:"speed_multiplier"`       // Added to gravity scale
	IntervalReduction    float64 `yaml:"interval_reduction"`     // Fraction removed from spawn interval
	GoodPercentReduction int     `yaml:"good_percent_reduction"` // Points removed from good_percent
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset converts a flag value to a preset. Empty means no preset.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	}
	return "", s == ""
}
