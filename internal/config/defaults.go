package config

import (
	_ "embed"
)

//go:embed defaults/catch.yaml
var defaultCatchYAML []byte

// DefaultCatchConfig returns the hardcoded catch configuration.
// It matches defaults/catch.yaml and backs the loader if the embed is broken.
func DefaultCatchConfig() CatchConfig {
	return CatchConfig{
		Arena: CatchArena{
			Width:        375,
			Height:       667,
			GroundHeight: 2,
		},
		Catcher: CatchCatcher{
			Width:   60,
			Height:  30,
			Padding: 18,
			Lift:    20,
		},
		Items: CatchItems{
			Width:  30,
			Height: 30,
		},
		Physics: CatchPhysics{
			Gravity:       -3.0,
			PointsPerUnit: 150,
		},
		Tilt: CatchTilt{
			Mode:             TiltModeLowPass,
			Sensitivity:      50,
			DeadZone:         0.02,
			Factor:           0.9,
			MovementSpeed:    200,
			SampleIntervalMS: 20,
			KeyTilt:          0.6,
		},
		Spawn: CatchSpawn{
			IntervalSeconds: 2.0,
			GoodPercent:     80,
			HeightFraction:  0.9,
		},
		Scoring: CatchScoring{
			WinScore:    10,
			CatchPoints: 1,
			MissPenalty: 1,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:      0.5,
				IntervalReduction:    0.4,
				GoodPercentReduction: 10,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "catch", "catch_gravity":
		return defaultCatchYAML
	default:
		return nil
	}
}
