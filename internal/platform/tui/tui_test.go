package tui

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilt-catch/internal/core"
	"github.com/vovakirdan/tilt-catch/internal/games/catch"
	"github.com/vovakirdan/tilt-catch/internal/storage"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		key    string
		want   core.Action
		isQuit bool
	}{
		{"left", core.ActionLeft, false},
		{"a", core.ActionLeft, false},
		{"right", core.ActionRight, false},
		{"d", core.ActionRight, false},
		{"enter", core.ActionConfirm, false},
		{" ", core.ActionConfirm, false},
		{"p", core.ActionPause, false},
		{"r", core.ActionRestart, false},
		{"esc", core.ActionBack, false},
		{"q", core.ActionQuit, true},
		{"ctrl+c", core.ActionQuit, true},
		{"x", core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, quit := km.MapKey(keyMsg(tt.key))
			if got != tt.want || quit != tt.isQuit {
				t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.key, got, quit, tt.want, tt.isQuit)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := map[string]MenuAction{
		"up":    MenuActionUp,
		"j":     MenuActionDown,
		"enter": MenuActionSelect,
		"tab":   MenuActionScoreboard,
		"esc":   MenuActionBack,
		"q":     MenuActionQuit,
		"x":     MenuActionNone,
	}
	for key, want := range tests {
		if got := km.MapKeyToMenuAction(keyMsg(key)); got != want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", key, got, want)
		}
	}
}

// fastConfig makes sessions end within a few hundred ticks.
func fastConfig(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catch.yaml")
	data := []byte(`
physics:
  gravity: -300
spawn:
  interval_seconds: 0.1
  good_percent: 100
scoring:
  win_score: 3
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	catch.SetConfigPath(path)
	t.Cleanup(func() { catch.SetConfigPath("") })
}

func newTestModel(t *testing.T, store *storage.Store) GameModel {
	t.Helper()
	cfg := core.RuntimeConfig{ScreenW: 60, ScreenH: 30, TickRate: 60, Seed: 42}
	m := NewGameModel(catch.New(), store, cfg).WithLogger(log.New(io.Discard))
	m.Init()
	return m
}

func update(t *testing.T, m GameModel, msg tea.Msg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return gm
}

func TestGameModelRecordsSessionOnce(t *testing.T) {
	fastConfig(t)
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	m = update(t, m, keyMsg("enter"))

	for i := 0; i < 20000 && !m.State().GameOver; i++ {
		m = update(t, m, TickMsg{})
	}
	if !m.State().GameOver {
		t.Fatal("session never ended")
	}

	for i := 0; i < 30; i++ {
		m = update(t, m, TickMsg{})
	}

	sessions, err := store.RecentSessions("catch", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("stored %d sessions, want 1", len(sessions))
	}
	got := sessions[0]
	if got.Score != m.State().Score {
		t.Errorf("stored score = %d, want %d", got.Score, m.State().Score)
	}
	wantOutcome := "lost"
	if m.State().Won {
		wantOutcome = "won"
	}
	if got.Outcome != wantOutcome {
		t.Errorf("stored outcome = %q, want %q", got.Outcome, wantOutcome)
	}

	high, _ := store.HighScore("catch")
	if m.State().Score > 0 && high != m.State().Score {
		t.Errorf("HighScore() = %d, want %d", high, m.State().Score)
	}

	// Start over, play another session to the end.
	m = update(t, m, keyMsg("r"))
	m = update(t, m, TickMsg{})
	if m.State().GameOver {
		t.Fatal("restart did not leave the terminal state")
	}
	m = update(t, m, keyMsg("enter"))
	for i := 0; i < 20000 && !m.State().GameOver; i++ {
		m = update(t, m, TickMsg{})
	}

	sessions, _ = store.RecentSessions("catch", 10)
	if len(sessions) != 2 {
		t.Errorf("stored %d sessions after second game, want 2", len(sessions))
	}
}

func TestGameModelKeyHold(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, keyMsg("enter"))
	m = update(t, m, TickMsg{})

	start := m.game.(*catch.Game).Session().Arena().Catcher().X
	m = update(t, m, keyMsg("left"))
	for i := 0; i < keyHoldTicks; i++ {
		m = update(t, m, TickMsg{})
	}
	if m.leftHold != 0 {
		t.Errorf("leftHold = %d after %d ticks", m.leftHold, keyHoldTicks)
	}
	moved := m.game.(*catch.Game).Session().Arena().Catcher().X
	if moved >= start {
		t.Errorf("catcher x = %v, want less than %v after holding left", moved, start)
	}

	m = update(t, m, keyMsg("left"))
	m = update(t, m, keyMsg("right"))
	if m.leftHold != 0 || m.rightHold != keyHoldTicks {
		t.Errorf("opposite key should cancel hold: left=%d right=%d", m.leftHold, m.rightHold)
	}
}

func TestGameModelBack(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, TickMsg{})

	m = update(t, m, keyMsg("esc"))
	if !m.BackToMenu() {
		t.Error("esc on the instructions screen should return to the menu")
	}

	m = newTestModel(t, nil)
	m = update(t, m, keyMsg("enter"))
	m = update(t, m, TickMsg{})
	m = update(t, m, keyMsg("esc"))
	if m.BackToMenu() {
		t.Error("esc while playing should be ignored")
	}

	m = update(t, m, keyMsg("p"))
	m = update(t, m, TickMsg{})
	m = update(t, m, keyMsg("esc"))
	if !m.BackToMenu() {
		t.Error("esc while paused should return to the menu")
	}
}

func TestRenderScreenText(t *testing.T) {
	s := core.NewScreen(5, 2)
	s.DrawTextColor(0, 0, "ab", core.ColorRed)
	s.DrawText(0, 1, "cd")

	out := RenderScreen(s)
	if got := len(splitLines(out)); got != 2 {
		t.Errorf("RenderScreen produced %d lines, want 2", got)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
