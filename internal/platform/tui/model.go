package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tilt-catch/internal/core"
	"github.com/vovakirdan/tilt-catch/internal/games/catch/sim"
	"github.com/vovakirdan/tilt-catch/internal/play"
	"github.com/vovakirdan/tilt-catch/internal/registry"
	"github.com/vovakirdan/tilt-catch/internal/storage"
)

// sessionGame is implemented by games backed by a catch simulation.
// Their finished sessions are stored with full statistics.
type sessionGame interface {
	Session() *sim.Session
}

// GameModel runs one game inside Bubble Tea. It is used directly by
// Run and embedded in SessionModel for SSH clients.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keyMapper  *KeyMapper
	gameState  core.GameState

	leftHold  int
	rightHold int

	standalone bool // Back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
	recorded   bool // Current terminal state has been saved
}

// NewGameModel creates a model for the given game. store may be nil.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     log.New(os.Stderr),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// WithLogger replaces the logger used for storage warnings.
func (m GameModel) WithLogger(l *log.Logger) GameModel {
	if l != nil {
		m.logger = l
	}
	return m
}

// Init resets the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The arena is in world units, so a resize only changes the
		// projection and the session keeps running.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionLeft:
		m.leftHold, m.rightHold = keyHoldTicks, 0
	case core.ActionRight:
		m.rightHold, m.leftHold = keyHoldTicks, 0
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused || m.gameState.Phase == sim.StateInstructions.String() {
			if m.standalone {
				m.quitting = true
				return m, tea.Quit
			}
			m.backToMenu = true
		}
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	if m.leftHold > 0 {
		m.inputFrame.Set(core.ActionLeft)
		m.leftHold--
	}
	if m.rightHold > 0 {
		m.inputFrame.Set(core.ActionRight)
		m.rightHold--
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver {
		if !m.recorded {
			m.record()
			m.recorded = true
		}
	} else {
		m.recorded = false
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// record stores the finished session. Storage is best effort: a failed
// write is logged and play continues.
func (m *GameModel) record() {
	if m.store == nil {
		return
	}

	if m.gameState.Score > 0 {
		if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score); err != nil {
			m.logger.Warn("could not save score", "game", m.game.ID(), "error", err)
		}
	}

	sg, ok := m.game.(sessionGame)
	if !ok {
		return
	}
	result := play.ResultOf(uuid.NewString(), m.game.ID(), sg.Session(), time.Now())
	if err := m.store.SaveSession(result); err != nil {
		m.logger.Warn("could not save session", "game", m.game.ID(), "error", err)
	}
}

// saveScreenshot writes the current frame as plain text under
// ~/.tiltcatch/screenshots.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".tiltcatch", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state seen on the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the local terminal until the user quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewGameModel(game, store, cfg)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
