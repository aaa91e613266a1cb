package catch

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tilt-catch/internal/config"
	"github.com/vovakirdan/tilt-catch/internal/core"
	"github.com/vovakirdan/tilt-catch/internal/games/catch/sim"
	"github.com/vovakirdan/tilt-catch/internal/motion"
	"github.com/vovakirdan/tilt-catch/internal/registry"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     12345,
	}
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func startedGame(t *testing.T) *Game {
	t.Helper()
	g := New()
	g.Reset(testRuntime())
	if res := g.Step(frame(core.ActionConfirm)); res.State.Phase != "playing" {
		t.Fatalf("phase after confirm = %q", res.State.Phase)
	}
	return g
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.InputFrame, 900)
	for i := range inputs {
		switch {
		case i == 0:
			inputs[i] = frame(core.ActionConfirm)
		case i%40 < 20:
			inputs[i] = frame(core.ActionRight)
		default:
			inputs[i] = frame(core.ActionLeft)
		}
	}

	run := func() (core.GameState, uint64) {
		g := New()
		g.Reset(testRuntime())
		var st core.GameState
		for _, in := range inputs {
			st = g.Step(in).State
		}
		return st, g.Session().Snapshot().Hash()
	}

	s1, h1 := run()
	s2, h2 := run()
	if s1 != s2 {
		t.Errorf("Determinism failed: states differ. Run1=%+v, Run2=%+v", s1, s2)
	}
	if h1 != h2 {
		t.Errorf("Determinism failed: snapshots differ. Run1=%x, Run2=%x", h1, h2)
	}
}

func TestKeyFlow(t *testing.T) {
	g := New()
	g.Reset(testRuntime())

	steps := []struct {
		in    core.InputFrame
		phase string
	}{
		{frame(), "instructions"},
		{frame(core.ActionPause), "instructions"},
		{frame(core.ActionConfirm), "playing"},
		{frame(core.ActionRestart), "playing"},
		{frame(core.ActionPause), "paused"},
		{frame(core.ActionConfirm), "playing"},
		{frame(core.ActionPause), "paused"},
		{frame(core.ActionPause), "playing"},
		{frame(core.ActionPause), "paused"},
		{frame(core.ActionRestart), "instructions"},
	}

	for i, s := range steps {
		st := g.Step(s.in).State
		if st.Phase != s.phase {
			t.Fatalf("step %d: phase = %q, expected %q", i, st.Phase, s.phase)
		}
		if st.Paused != (s.phase == "paused") {
			t.Errorf("step %d: Paused = %v", i, st.Paused)
		}
	}
}

func TestPlayAgainAfterLoss(t *testing.T) {
	g := startedGame(t)
	c := g.Session().Arena().Catcher()
	g.Session().Arena().Add(sim.ItemHazard, c.X, c.Y)

	res := g.Step(frame())
	if !res.State.GameOver || res.State.Won {
		t.Fatalf("state = %+v, expected lost", res.State)
	}
	if len(res.Notices) != 2 || res.Notices[0] != "BOOM" || res.Notices[1] != "GAME OVER" {
		t.Errorf("notices = %v", res.Notices)
	}

	res = g.Step(frame(core.ActionConfirm))
	if res.State.Phase != "playing" || res.State.Score != 0 {
		t.Errorf("after play again: %+v", res.State)
	}
}

func TestCatchNotice(t *testing.T) {
	g := startedGame(t)
	c := g.Session().Arena().Catcher()
	g.Session().Arena().Add(sim.ItemGood, c.X, c.Y)

	res := g.Step(frame())
	if res.State.Score != 1 {
		t.Errorf("score = %d, expected 1", res.State.Score)
	}
	if len(res.Notices) != 1 || res.Notices[0] != "+1" {
		t.Errorf("notices = %v, expected [+1]", res.Notices)
	}
}

func TestKeyboardTiltMovesCatcher(t *testing.T) {
	g := startedGame(t)
	x0 := g.Session().Arena().Catcher().X

	for i := 0; i < 10; i++ {
		g.Step(frame(core.ActionRight))
	}
	c := g.Session().Arena().Catcher()
	if c.X <= x0 || c.Facing != sim.FacingRight {
		t.Fatalf("after right: x=%v (start %v) facing %v", c.X, x0, c.Facing)
	}

	for i := 0; i < 30; i++ {
		g.Step(frame(core.ActionLeft))
	}
	if f := g.Session().Arena().Catcher().Facing; f != sim.FacingLeft {
		t.Errorf("facing = %v, expected left", f)
	}

	both := g.Session().Arena().Catcher().X
	g.Step(frame(core.ActionLeft, core.ActionRight))
	if g.Session().Arena().Catcher().X > both {
		t.Error("opposing keys should not push right")
	}
}

func TestSensorSourceDrivesCatcher(t *testing.T) {
	g := New()
	g.Reset(testRuntime())
	src := motion.NewLatest()
	g.SetSource(src)
	g.Step(frame(core.ActionConfirm))

	x0 := g.Session().Arena().Catcher().X
	g.Step(frame())
	if g.Session().Arena().Catcher().X != x0 {
		t.Fatal("catcher moved without a sample")
	}

	src.Put(motion.Sample{X: 1})
	g.Step(frame())
	x1 := g.Session().Arena().Catcher().X
	if x1 <= x0 {
		t.Fatalf("sample should move the catcher right: %v -> %v", x0, x1)
	}

	g.Step(frame())
	if g.Session().Arena().Catcher().X != x1 {
		t.Error("a sample must only be applied once")
	}
}

func TestGravityVariant(t *testing.T) {
	g := NewGravity()
	g.Reset(testRuntime())

	if g.ID() != "catch_gravity" {
		t.Errorf("ID() = %q", g.ID())
	}
	if mode := g.Session().Config().Tilt.Mode; mode != sim.TiltDirect {
		t.Errorf("tilt mode = %v, expected direct", mode)
	}

	g.Step(frame(core.ActionConfirm))
	x0 := g.Session().Arena().Catcher().X
	g.Step(core.InputFrame{HasTilt: true, Tilt: 0.5})
	if got := g.Session().Arena().Catcher().X - x0; math.Abs(got-25) > 1e-9 {
		t.Errorf("direct delta = %v, expected 25", got)
	}
}

func TestSimConfigMatchesSimDefaults(t *testing.T) {
	sc, err := SimConfig(config.DefaultCatchConfig())
	if err != nil {
		t.Fatalf("SimConfig() failed: %v", err)
	}
	if sc != sim.DefaultConfig() {
		t.Errorf("SimConfig(defaults) = %+v\nexpected %+v", sc, sim.DefaultConfig())
	}
}

func TestSimConfigRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.CatchConfig)
		want   error
	}{
		{"good percent", func(c *config.CatchConfig) { c.Spawn.GoodPercent = 150 }, sim.ErrInvalidConfig},
		{"factor", func(c *config.CatchConfig) { c.Tilt.Factor = 1.5 }, sim.ErrInvalidConfig},
		{"win score", func(c *config.CatchConfig) { c.Scoring.WinScore = 0 }, sim.ErrInvalidConfig},
		{"tilt mode", func(c *config.CatchConfig) { c.Tilt.Mode = "wobble" }, config.ErrInvalidConfig},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultCatchConfig()
			tc.mutate(&cfg)
			if _, err := SimConfig(cfg); !errors.Is(err, tc.want) {
				t.Errorf("SimConfig() error = %v, expected %v", err, tc.want)
			}
		})
	}
}

func TestInvalidConfigFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catch.yaml")
	if err := os.WriteFile(path, []byte("spawn:\n  good_percent: 150\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })

	g := New()
	g.Reset(testRuntime())
	if !errors.Is(g.configErr, sim.ErrInvalidConfig) {
		t.Errorf("configErr = %v, expected sim.ErrInvalidConfig", g.configErr)
	}
	if got := g.Session().Config().GoodPercent; got != 80 {
		t.Errorf("good percent = %d, expected default 80", got)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Config ignored") {
		t.Error("instructions should mention the ignored config")
	}
}

func TestConfigNoticeStaysInsideBox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catch.yaml")
	if err := os.WriteFile(path, []byte("spawn:\n  good_percent: 150\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })

	tests := []struct {
		name string
		w, h int
	}{
		{"wide", 120, 30},
		{"standard", 80, 24},
		{"narrow", 40, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.Reset(testRuntime())

			screen := core.NewScreen(tt.w, tt.h)
			g.Render(screen)

			found := false
			for y := 0; y < screen.Height(); y++ {
				row := screen.Row(y)
				if !strings.Contains(row, "Config ignored") {
					continue
				}
				found = true
				inner := strings.TrimSpace(row)
				if !strings.HasPrefix(inner, "│") || !strings.HasSuffix(inner, "│") {
					t.Errorf("notice row %q overwrites the box border", row)
				}
			}
			if !found {
				t.Errorf("no config notice on screen:\n%s", screen.String())
			}
		})
	}
}

func TestDifficultyTuner(t *testing.T) {
	dc := config.DefaultCatchConfig().Difficulty
	if NewTuner(dc) != nil {
		t.Fatal("disabled difficulty should yield no tuner")
	}

	dc.Enabled = true
	tuner := NewTuner(dc)
	base := sim.Tuning{GravityScale: 1, SpawnInterval: 2 * time.Second, GoodPercent: 80}

	got := tuner.Tune(base, 10, 0)
	if math.Abs(got.GravityScale-1.5) > 1e-9 {
		t.Errorf("gravity scale = %v, expected 1.5", got.GravityScale)
	}
	if d := got.SpawnInterval - 1200*time.Millisecond; d < -time.Microsecond || d > time.Microsecond {
		t.Errorf("interval = %v, expected 1.2s", got.SpawnInterval)
	}
	if got.GoodPercent != 70 {
		t.Errorf("good percent = %d, expected 70", got.GoodPercent)
	}

	if got := tuner.Tune(base, 0, 0); got.SpawnInterval != base.SpawnInterval || got.GoodPercent != 80 {
		t.Errorf("score 0 should keep the base tuning, got %+v", got)
	}
}

func TestDifficultyPresetSpeedsUpSpawns(t *testing.T) {
	SetDifficultyPreset("hard")
	t.Cleanup(func() { SetDifficultyPreset("") })

	g := startedGame(t)
	if got := g.Session().Config().SpawnInterval; got != 1500*time.Millisecond {
		t.Errorf("hard interval = %v, expected 1.5s", got)
	}
}

func TestRender(t *testing.T) {
	g := New()
	g.Reset(testRuntime())
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"TILT CATCH", "Enter to start", "Score: 0/10"} {
		if !strings.Contains(out, want) {
			t.Errorf("instructions screen missing %q", want)
		}
	}

	g.Step(frame(core.ActionConfirm))
	c := g.Session().Arena().Catcher()
	g.Session().Arena().Add(sim.ItemHazard, c.X, 400)
	g.Render(screen)
	out = screen.String()
	if strings.Contains(out, "TILT CATCH") {
		t.Error("overlay should be gone while playing")
	}
	if !strings.Contains(out, `\`) || !strings.ContainsRune(out, HazardChar) {
		t.Errorf("playing screen should show catcher and hazard:\n%s", out)
	}

	g.Step(frame(core.ActionPause))
	g.Render(screen)
	if !strings.Contains(screen.String(), "PAUSED") {
		t.Error("paused overlay missing")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New()
	g.Reset(testRuntime())
	screen := core.NewScreen(20, 8)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("expected a too-small notice")
	}
}

type recorder struct {
	ticks  int
	events int
	last   sim.Snapshot
}

func (r *recorder) Observe(events []sim.Event, snap sim.Snapshot) {
	r.ticks++
	r.events += len(events)
	r.last = snap
}

func TestObserverSeesEveryTick(t *testing.T) {
	rec := &recorder{}
	SetObserver(rec)
	t.Cleanup(func() { SetObserver(nil) })

	g := startedGame(t)
	for i := 0; i < 9; i++ {
		g.Step(frame())
	}
	if rec.ticks != 10 {
		t.Errorf("observed %d ticks, expected 10", rec.ticks)
	}
	if rec.events == 0 || rec.last.State != sim.StatePlaying {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"catch", "catch_gravity"} {
		if !registry.Exists(id) {
			t.Errorf("%q not registered", id)
		}
	}
	g, err := registry.Create("catch")
	if err != nil {
		t.Fatal(err)
	}
	if g.Title() != "Tilt Catch" {
		t.Errorf("Title() = %q", g.Title())
	}
}

func TestModeFor(t *testing.T) {
	tests := []struct {
		id   string
		want Mode
		ok   bool
	}{
		{"catch", ModeLowPass, true},
		{"catch_gravity", ModeGravity, true},
		{"snake", ModeLowPass, false},
	}
	for _, tt := range tests {
		got, ok := ModeFor(tt.id)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ModeFor(%q) = %v, %v; want %v, %v", tt.id, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewSessionHeadless(t *testing.T) {
	a, cfg, err := NewSession(ModeGravity, 9)
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	if cfg.Tilt.Mode != config.TiltModeDirect {
		t.Errorf("gravity variant tilt mode = %q, want %q", cfg.Tilt.Mode, config.TiltModeDirect)
	}
	if a.State() != sim.StateInstructions {
		t.Errorf("new session state = %v, want instructions", a.State())
	}

	b, _, _ := NewSession(ModeGravity, 9)
	for _, s := range []*sim.Session{a, b} {
		s.Submit(sim.CommandStart)
		for i := 0; i < 600; i++ {
			s.Step(sim.Input{Dt: time.Second / 60, Tilt: 0.2, HasTilt: true})
		}
	}
	if a.Snapshot().Hash() != b.Snapshot().Hash() {
		t.Error("sessions with the same seed diverged")
	}
}

func TestNewSessionRejectsExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("spawn:\n  good_percent: 150\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("spawn:\n  good_percent: 60\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { SetConfigPath("") })

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"invalid values", bad, true},
		{"missing file", filepath.Join(dir, "missing.yaml"), true},
		{"valid file", good, false},
		{"no file", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetConfigPath(tt.path)

			session, _, err := NewSession(ModeLowPass, 3)
			if tt.wantErr {
				if session != nil {
					t.Error("a rejected config should not produce a session")
				}
				if err == nil || !strings.Contains(err.Error(), "rejected") {
					t.Errorf("err = %v, want a rejected config", err)
				}
				if CheckConfig() == nil {
					t.Error("CheckConfig() should fail")
				}
				return
			}
			if session == nil || err != nil {
				t.Fatalf("NewSession() = %v, %v", session, err)
			}
			if CheckConfig() != nil {
				t.Errorf("CheckConfig() = %v", CheckConfig())
			}
		})
	}
}
