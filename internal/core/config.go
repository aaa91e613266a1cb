package core

// RuntimeConfig is handed to games on Reset.
// Games map their own world coordinates onto ScreenW x ScreenH cells.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed, 0 means the platform picks one from the clock
}

// DefaultConfig returns a RuntimeConfig for an 80x24 terminal at 60 ticks.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// GameState is the platform-facing summary of a running game.
type GameState struct {
	Score    int    // Current score, may be negative
	GameOver bool   // Session reached a terminal state
	Won      bool   // Terminal state was a win
	Paused   bool   // Simulation is frozen
	Phase    string // Game-specific phase name for status lines
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
	// Notices are short human-readable lines describing what happened
	// this tick ("+1", "MISS"). The platform may flash or log them.
	Notices []string
}
