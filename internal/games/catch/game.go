// Package catch adapts the falling-item simulation to the terminal platform.
// The player tilts a catcher left and right to catch good items and
// avoid hazards.
package catch

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tilt-catch/internal/config"
	"github.com/vovakirdan/tilt-catch/internal/core"
	"github.com/vovakirdan/tilt-catch/internal/games/catch/sim"
	"github.com/vovakirdan/tilt-catch/internal/motion"
	"github.com/vovakirdan/tilt-catch/internal/registry"
)

// Mode selects the tilt filter a variant forces.
type Mode int

const (
	ModeLowPass Mode = iota // Smoothed, dead-zoned tilt
	ModeGravity             // Direct gravity tilt
)

// ModeFor maps a variant ID to its mode.
func ModeFor(id string) (Mode, bool) {
	switch id {
	case "catch":
		return ModeLowPass, true
	case "catch_gravity":
		return ModeGravity, true
	}
	return ModeLowPass, false
}

// Observer is told about every tick, e.g. to mirror play to a phone.
type Observer interface {
	Observe(events []sim.Event, snap sim.Snapshot)
}

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

var (
	tiltSource motion.Source
	observer   Observer
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok {
		p = ""
	}
	difficultyPreset = p
}

// SetTiltSource makes games created afterwards read tilt from src.
// Keyboard tilt still overrides it on frames where a key is held.
func SetTiltSource(src motion.Source) {
	tiltSource = src
}

// SetObserver makes games created afterwards report every tick to o.
func SetObserver(o Observer) {
	observer = o
}

// flashTicks is how long a notice stays on screen.
const flashTicks = 45

// Game implements registry.Game over a sim.Session.
type Game struct {
	mode     Mode
	session  *sim.Session
	cfg      config.CatchConfig
	runtime  core.RuntimeConfig
	dt       time.Duration
	source   motion.Source
	observer Observer

	configErr error // Shown on the instructions screen, defaults are used instead

	flash      string
	flashColor core.Color
	flashLeft  int
}

// New creates the smoothed-tilt variant.
func New() *Game {
	return &Game{mode: ModeLowPass, source: tiltSource, observer: observer}
}

// NewGravity creates the direct gravity-tilt variant.
func NewGravity() *Game {
	return &Game{mode: ModeGravity, source: tiltSource, observer: observer}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeGravity {
		return "catch_gravity"
	}
	return "catch"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeGravity {
		return "Tilt Catch (Gravity)"
	}
	return "Tilt Catch"
}

// SetSource replaces the tilt source for this game only.
func (g *Game) SetSource(src motion.Source) {
	g.source = src
}

// Reset loads configuration and starts a fresh session on the
// instructions screen.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.flash = ""
	g.flashLeft = 0

	tickRate := runtime.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	g.dt = time.Second / time.Duration(tickRate)

	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g.session, g.cfg, g.configErr = NewSession(g.mode, seed)
	if g.session == nil {
		// The CLI refuses a rejected file before a game starts; a game
		// reset without that check still gets a playable arena.
		g.session, g.cfg = defaultSession(g.mode, seed)
	}
}

// Step maps platform input to commands and tilt, then advances the session.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if id, ok := g.buttonFor(in); ok {
		g.Press(id)
	}

	tilt, hasTilt := g.tiltFor(in)
	res := g.session.Step(sim.Input{Dt: g.dt, Tilt: tilt, HasTilt: hasTilt})

	if g.flashLeft > 0 {
		g.flashLeft--
	}
	notices := g.notices(res.Events)

	if g.observer != nil {
		g.observer.Observe(res.Events, g.session.Snapshot())
	}

	return core.StepResult{State: g.State(), Notices: notices}
}

// Press issues the commands behind an on-screen button.
// It reports false for unknown buttons.
func (g *Game) Press(id sim.ButtonID) bool {
	cmds, ok := sim.CommandsForButton(id)
	if !ok {
		return false
	}
	for _, cmd := range cmds {
		g.session.Submit(cmd)
	}
	return true
}

// buttonFor picks the button a key press stands for in the current state.
func (g *Game) buttonFor(in core.InputFrame) (sim.ButtonID, bool) {
	st := g.session.State()

	switch {
	case in.Has(core.ActionConfirm):
		switch {
		case st == sim.StateInstructions:
			return sim.ButtonStart, true
		case st == sim.StatePaused:
			return sim.ButtonResume, true
		case st.Terminal():
			return sim.ButtonPlayAgain, true
		}
	case in.Has(core.ActionPause):
		switch st {
		case sim.StatePlaying:
			return sim.ButtonPause, true
		case sim.StatePaused:
			return sim.ButtonResume, true
		}
	case in.Has(core.ActionRestart):
		if st == sim.StatePaused || st.Terminal() {
			return sim.ButtonStartOver, true
		}
	}
	return "", false
}

// tiltFor chooses this tick's tilt sample: an explicit frame sample,
// then held arrow keys, then the sensor. Without a sensor an idle
// keyboard reads as zero so smoothing decays.
func (g *Game) tiltFor(in core.InputFrame) (float64, bool) {
	if in.HasTilt {
		return in.Tilt, true
	}

	left, right := in.Has(core.ActionLeft), in.Has(core.ActionRight)
	switch {
	case left && !right:
		return -g.cfg.Tilt.KeyTilt, true
	case right && !left:
		return g.cfg.Tilt.KeyTilt, true
	}

	if g.source == nil {
		return 0, true
	}
	if s, ok := g.source.Take(); ok {
		return s.X, true
	}
	return 0, false
}

func (g *Game) notices(events []sim.Event) []string {
	var out []string
	for _, e := range events {
		var text string
		var color core.Color
		switch ev := e.(type) {
		case sim.ItemRemoved:
			switch ev.Outcome {
			case sim.OutcomeCatch:
				text, color = fmt.Sprintf("+%d", g.session.Config().CatchPoints), core.ColorBrightGreen
			case sim.OutcomeMiss:
				text, color = "MISS", core.ColorYellow
			case sim.OutcomeHazard:
				text, color = "BOOM", core.ColorBrightRed
			}
		case sim.StateChanged:
			switch ev.To {
			case sim.StateWon:
				text, color = "YOU WIN", core.ColorBrightGreen
			case sim.StateLost:
				text, color = "GAME OVER", core.ColorRed
			}
		}
		if text == "" {
			continue
		}
		out = append(out, text)
		g.flash, g.flashColor, g.flashLeft = text, color, flashTicks
	}
	return out
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{Phase: sim.StateInstructions.String()}
	}
	st := g.session.State()
	return core.GameState{
		Score:    g.session.Score(),
		GameOver: st.Terminal(),
		Won:      st == sim.StateWon,
		Paused:   st == sim.StatePaused,
		Phase:    st.String(),
	}
}

// Session exposes the underlying simulation.
func (g *Game) Session() *sim.Session {
	return g.session
}

// Register the variants with the registry
func init() {
	registry.Register("catch", func() registry.Game {
		return New()
	})
	registry.Register("catch_gravity", func() registry.Game {
		return NewGravity()
	})
}
