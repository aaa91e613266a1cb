package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultCatchConfig()
	if err := yaml.Unmarshal(defaultCatchYAML, &cfg); err != nil {
		t.Fatalf("embedded catch.yaml does not parse: %v", err)
	}
	if cfg != DefaultCatchConfig() {
		t.Errorf("embedded defaults drifted from DefaultCatchConfig:\n%+v\n%+v", cfg, DefaultCatchConfig())
	}
}

func TestLoadCatchCustomPathOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catch.yaml")
	data := []byte("spawn:\n  good_percent: 70\ntilt:\n  mode: direct\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCatch(path)
	if err != nil {
		t.Fatalf("LoadCatch() failed: %v", err)
	}
	if cfg.Spawn.GoodPercent != 70 {
		t.Errorf("good_percent = %d, expected 70", cfg.Spawn.GoodPercent)
	}
	if cfg.Tilt.Mode != TiltModeDirect {
		t.Errorf("tilt.mode = %q, expected direct", cfg.Tilt.Mode)
	}
	// Untouched keys keep their defaults
	if cfg.Spawn.IntervalSeconds != 2.0 || cfg.Scoring.WinScore != 10 {
		t.Errorf("overlay lost defaults: %+v", cfg)
	}
}

func TestLoadCatchMissingCustomPath(t *testing.T) {
	_, err := LoadCatch(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestLoadCatchRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catch.yaml")
	if err := os.WriteFile(path, []byte("tilt:\n  mode: sideways\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadCatch(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CatchConfig)
		ok     bool
	}{
		{"defaults", func(*CatchConfig) {}, true},
		{"direct mode", func(c *CatchConfig) { c.Tilt.Mode = TiltModeDirect }, true},
		{"unknown mode", func(c *CatchConfig) { c.Tilt.Mode = "raw" }, false},
		{"zero sample interval", func(c *CatchConfig) { c.Tilt.SampleIntervalMS = 0 }, false},
		{"negative key tilt", func(c *CatchConfig) { c.Tilt.KeyTilt = -1 }, false},
		{"bad progression", func(c *CatchConfig) { c.Difficulty.Progression.Type = "level" }, false},
		{"initial level above one", func(c *CatchConfig) { c.Difficulty.InitialLevel = 1.5 }, false},
		{"interval reduction of one", func(c *CatchConfig) { c.Difficulty.Scaling.IntervalReduction = 1 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultCatchConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyCatchPreset(t *testing.T) {
	cfg := DefaultCatchConfig()
	ApplyCatchPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset difficulty = %+v", cfg.Difficulty)
	}
	if cfg.Spawn.GoodPercent != 70 {
		t.Errorf("hard preset good_percent = %d, expected 70", cfg.Spawn.GoodPercent)
	}

	ApplyCatchPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	before := DefaultCatchConfig()
	after := before
	ApplyCatchPreset(&after, "")
	if before != after {
		t.Error("empty preset should not change the config")
	}
}

func TestParsePreset(t *testing.T) {
	if p, ok := ParsePreset("easy"); !ok || p != DifficultyEasy {
		t.Errorf("ParsePreset(easy) = %q, %v", p, ok)
	}
	if _, ok := ParsePreset(""); !ok {
		t.Error("empty preset should be accepted")
	}
	if _, ok := ParsePreset("insane"); ok {
		t.Error("unknown preset should be rejected")
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DefaultCatchConfig().Difficulty

	off := NewDifficultyManager(cfg)
	if off.IsEnabled() {
		t.Fatal("default difficulty should be disabled")
	}
	if got := off.Interval(2.0, 9, 1000); got != 2.0 {
		t.Errorf("disabled Interval = %v, expected 2.0", got)
	}

	cfg.Enabled = true
	on := NewDifficultyManager(cfg)

	tests := []struct {
		score    int
		interval float64
		speed    float64
		good     int
	}{
		{0, 2.0, 1.0, 80},
		{5, 1.6, 1.25, 75},
		{10, 1.2, 1.5, 70},
		{50, 1.2, 1.5, 70},
	}
	for _, tc := range tests {
		if got := on.Interval(2.0, tc.score, 0); !near(got, tc.interval) {
			t.Errorf("Interval at score %d = %v, expected %v", tc.score, got, tc.interval)
		}
		if got := on.Speed(1.0, tc.score, 0); !near(got, tc.speed) {
			t.Errorf("Speed at score %d = %v, expected %v", tc.score, got, tc.speed)
		}
		if got := on.GoodPercent(80, tc.score, 0); got != tc.good {
			t.Errorf("GoodPercent at score %d = %d, expected %d", tc.score, got, tc.good)
		}
	}

	on.SetInitialLevel(2)
	if got := on.Level(0, 0); got != 1.0 {
		t.Errorf("initial level should clamp to 1.0, got %v", got)
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
