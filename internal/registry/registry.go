// Package registry maps game IDs to factories. Game variants register
// themselves from init(), so the CLI and the menus can list and create
// them without importing each one by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tilt-catch/internal/core"
)

// Game is what the platform drives. Implementations hold pure logic;
// the platform owns timing, input mapping and terminal output.
type Game interface {
	// ID returns the variant identifier ("catch", "catch_gravity").
	// It keys CLI arguments and stored scores.
	ID() string

	// Title returns the display name.
	Title() string

	// Reset starts a fresh session. Called before the first Step and
	// again whenever the platform wants a clean slate.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick with the actions and tilt collected
	// for it.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state. dst may hold the previous frame.
	Render(dst *core.Screen)

	State() core.GameState
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new, not yet reset, game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a factory under id. It panics on a duplicate id.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns every registered game sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a game by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
