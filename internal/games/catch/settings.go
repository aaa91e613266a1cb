package catch

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tilt-catch/internal/config"
	"github.com/vovakirdan/tilt-catch/internal/games/catch/sim"
)

// SimConfig validates a loaded config and converts it for the simulation.
func SimConfig(c config.CatchConfig) (sim.Config, error) {
	if err := c.Validate(); err != nil {
		return sim.Config{}, err
	}

	mode := sim.TiltLowPass
	if c.Tilt.Mode == config.TiltModeDirect {
		mode = sim.TiltDirect
	}

	sc := sim.Config{
		ArenaWidth:     c.Arena.Width,
		ArenaHeight:    c.Arena.Height,
		GroundHeight:   c.Arena.GroundHeight,
		CatcherWidth:   c.Catcher.Width,
		CatcherHeight:  c.Catcher.Height,
		CatcherPadding: c.Catcher.Padding,
		CatcherLift:    c.Catcher.Lift,
		ItemWidth:      c.Items.Width,
		ItemHeight:     c.Items.Height,
		Gravity:        c.Physics.Gravity,
		PointsPerUnit:  c.Physics.PointsPerUnit,
		Tilt: sim.TiltConfig{
			Mode:          mode,
			Sensitivity:   c.Tilt.Sensitivity,
			DeadZone:      c.Tilt.DeadZone,
			Factor:        c.Tilt.Factor,
			MovementSpeed: c.Tilt.MovementSpeed,
		},
		SpawnInterval:       time.Duration(c.Spawn.IntervalSeconds * float64(time.Second)),
		GoodPercent:         c.Spawn.GoodPercent,
		SpawnHeightFraction: c.Spawn.HeightFraction,
		WinScore:            c.Scoring.WinScore,
		CatchPoints:         c.Scoring.CatchPoints,
		MissPenalty:         c.Scoring.MissPenalty,
	}
	if err := sc.Validate(); err != nil {
		return sim.Config{}, fmt.Errorf("catch: %w", err)
	}
	return sc, nil
}

// difficultyTuner scales gravity, spawn rate and hazard share with
// the player's score.
type difficultyTuner struct {
	dm *config.DifficultyManager
}

// NewTuner returns a tuner for cfg, or nil when progression is off.
func NewTuner(cfg config.DifficultyConfig) sim.Tuner {
	dm := config.NewDifficultyManager(cfg)
	if !dm.IsEnabled() {
		return nil
	}
	return difficultyTuner{dm: dm}
}

func (t difficultyTuner) Tune(base sim.Tuning, score int, playTicks uint64) sim.Tuning {
	ticks := int(playTicks)
	return sim.Tuning{
		GravityScale:  t.dm.Speed(base.GravityScale, score, ticks),
		SpawnInterval: time.Duration(t.dm.Interval(float64(base.SpawnInterval), score, ticks)),
		GoodPercent:   t.dm.GoodPercent(base.GoodPercent, score, ticks),
	}
}

// Load reads the config set with SetConfigPath, applies the preset set
// with SetDifficultyPreset and the variant's tilt mode. Anything invalid
// falls back to defaults; the returned error says what was ignored.
func Load(mode Mode) (config.CatchConfig, sim.Config, error) {
	cfg, loadErr := config.LoadCatch(configPath)
	if loadErr != nil {
		cfg = config.DefaultCatchConfig()
	}
	if difficultyPreset != "" {
		config.ApplyCatchPreset(&cfg, difficultyPreset)
	}
	if mode == ModeGravity {
		cfg.Tilt.Mode = config.TiltModeDirect
	}

	sc, err := SimConfig(cfg)
	if err != nil {
		fallback := defaultsFor(mode)
		sc, _ = SimConfig(fallback)
		return fallback, sc, err
	}
	return cfg, sc, loadErr
}

func defaultsFor(mode Mode) config.CatchConfig {
	cfg := config.DefaultCatchConfig()
	if mode == ModeGravity {
		cfg.Tilt.Mode = config.TiltModeDirect
	}
	return cfg
}

// defaultSession ignores every config source, presets included.
func defaultSession(mode Mode, seed int64) (*sim.Session, config.CatchConfig) {
	cfg := defaultsFor(mode)
	sc, _ := SimConfig(cfg)
	session, _ := sim.NewSession(sc, rand.New(rand.NewSource(seed)))
	session.SetTuner(NewTuner(cfg.Difficulty))
	return session, cfg
}

// NewSession builds a seeded simulation for a variant with difficulty
// tuning attached. A file named with SetConfigPath must be valid: when it
// is not, the session is nil and the error says why. A config found on
// the search path is only advisory, so its problems fall back to defaults
// and come back as the error next to a usable session.
func NewSession(mode Mode, seed int64) (*sim.Session, config.CatchConfig, error) {
	cfg, sc, cfgErr := Load(mode)
	if cfgErr != nil && configPath != "" {
		return nil, cfg, fmt.Errorf("catch: config %s rejected: %w", configPath, cfgErr)
	}

	session, err := sim.NewSession(sc, rand.New(rand.NewSource(seed)))
	if err != nil {
		// sc already passed validation, so this only guards against drift
		// between the two validators.
		cfgErr = err
		cfg = config.DefaultCatchConfig()
		session, _ = sim.NewSession(sim.DefaultConfig(), rand.New(rand.NewSource(seed)))
	}
	session.SetTuner(NewTuner(cfg.Difficulty))
	return session, cfg, cfgErr
}

// CheckConfig reports whether the file set with SetConfigPath can start a
// session. It is nil when no file was set.
func CheckConfig() error {
	if configPath == "" {
		return nil
	}
	_, _, err := NewSession(ModeLowPass, 1)
	return err
}
