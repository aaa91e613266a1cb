package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadCatch loads the catch configuration.
// Search order: customPath -> ~/.tiltcatch/configs/catch.yaml -> ./configs/catch.yaml -> embedded default.
// Files are overlaid on the defaults, so a file only needs the keys it changes.
func LoadCatch(customPath string) (CatchConfig, error) {
	cfg, err := loadCatchFile(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadCatchFile(customPath string) (CatchConfig, error) {
	cfg := DefaultCatchConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("catch.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultCatchConfig()
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "catch.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultCatchConfig()
	}

	if err := yaml.Unmarshal(defaultCatchYAML, &cfg); err != nil {
		return DefaultCatchConfig(), nil
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tiltcatch", "configs", filename)
}

// Validate checks the settings the simulation itself does not own: the tilt
// mode name, sampling, keyboard tilt and difficulty progression. The
// simulation validates its own numbers when a session is created.
func (c CatchConfig) Validate() error {
	switch c.Tilt.Mode {
	case TiltModeDirect, TiltModeLowPass:
	default:
		return fmt.Errorf("%w: tilt.mode must be %q or %q, got %q",
			ErrInvalidConfig, TiltModeDirect, TiltModeLowPass, c.Tilt.Mode)
	}
	if c.Tilt.SampleIntervalMS <= 0 {
		return fmt.Errorf("%w: tilt.sample_interval_ms must be positive, got %d",
			ErrInvalidConfig, c.Tilt.SampleIntervalMS)
	}
	if c.Tilt.KeyTilt < 0 {
		return fmt.Errorf("%w: tilt.key_tilt must not be negative, got %v",
			ErrInvalidConfig, c.Tilt.KeyTilt)
	}

	d := c.Difficulty
	switch d.Progression.Type {
	case "score", "time", "none":
	default:
		return fmt.Errorf("%w: difficulty.progression.type must be score, time or none, got %q",
			ErrInvalidConfig, d.Progression.Type)
	}
	if d.InitialLevel < 0 || d.InitialLevel > 1 {
		return fmt.Errorf("%w: difficulty.initial_level must be in [0,1], got %v",
			ErrInvalidConfig, d.InitialLevel)
	}
	if d.Scaling.IntervalReduction < 0 || d.Scaling.IntervalReduction >= 1 {
		return fmt.Errorf("%w: difficulty.scaling.interval_reduction must be in [0,1), got %v",
			ErrInvalidConfig, d.Scaling.IntervalReduction)
	}
	return nil
}

// ApplyCatchPreset modifies the config based on a difficulty preset.
func ApplyCatchPreset(cfg *CatchConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}

	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Spawn.GoodPercent = 80
		cfg.Spawn.IntervalSeconds = 2.0
	case DifficultyHard:
		cfg.Spawn.GoodPercent = 70
		cfg.Spawn.IntervalSeconds = 1.5
	}
}
