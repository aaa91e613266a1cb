// Package sim is the catch game's simulation core: a tilt-driven catcher,
// items falling under gravity, a spawn scheduler and the scoring state
// machine. It has no terminal, network or storage dependencies. The shell
// drives it with commands and tilt samples and reads back events.
package sim

// ItemKind tags a falling item.
type ItemKind int

const (
	ItemGood ItemKind = iota
	ItemHazard
)

func (k ItemKind) String() string {
	switch k {
	case ItemGood:
		return "good"
	case ItemHazard:
		return "hazard"
	default:
		return "unknown"
	}
}

// Role returns the collision role of an item of this kind.
func (k ItemKind) Role() Role {
	if k == ItemHazard {
		return RoleHazardItem
	}
	return RoleGoodItem
}

// Role is what a body is for collision purposes.
type Role int

const (
	RoleNone Role = iota
	RoleCatcher
	RoleGround
	RoleGoodItem
	RoleHazardItem
)

func (r Role) String() string {
	switch r {
	case RoleCatcher:
		return "catcher"
	case RoleGround:
		return "ground"
	case RoleGoodItem:
		return "good-item"
	case RoleHazardItem:
		return "hazard-item"
	default:
		return "none"
	}
}

// IsItem reports whether the role belongs to a falling item.
func (r Role) IsItem() bool {
	return r == RoleGoodItem || r == RoleHazardItem
}

// Facing is the catcher's horizontal direction.
type Facing int

const (
	FacingRight Facing = iota
	FacingLeft
)

func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}

// State is the session state machine.
//
//	Instructions -> Playing <-> Paused
//	Playing -> Won | Lost
//	Won | Lost | Paused -> Instructions (restart)
type State int

const (
	StateInstructions State = iota
	StatePlaying
	StatePaused
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StateInstructions:
		return "instructions"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has ended.
func (s State) Terminal() bool {
	return s == StateWon || s == StateLost
}

// Command is a request from the shell, applied at the start of the next tick.
type Command int

const (
	CommandStart Command = iota
	CommandPause
	CommandResume
	CommandRestart
)

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandPause:
		return "pause"
	case CommandResume:
		return "resume"
	case CommandRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// ParseCommand converts a command name back into a Command.
func ParseCommand(s string) (Command, bool) {
	for _, c := range []Command{CommandStart, CommandPause, CommandResume, CommandRestart} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// ButtonID names a tappable control in the presentation shell.
type ButtonID string

const (
	ButtonStart     ButtonID = "startButton"
	ButtonPause     ButtonID = "pauseButton"
	ButtonResume    ButtonID = "resumeButton"
	ButtonStartOver ButtonID = "startOverButton"
	ButtonPlayAgain ButtonID = "playAgainButton"
	ButtonExit      ButtonID = "exitButton"
)

// CommandsForButton resolves a button to the commands it issues.
// Exit is known but issues nothing; leaving is up to the shell.
func CommandsForButton(id ButtonID) ([]Command, bool) {
	switch id {
	case ButtonStart:
		return []Command{CommandStart}, true
	case ButtonPause:
		return []Command{CommandPause}, true
	case ButtonResume:
		return []Command{CommandResume}, true
	case ButtonStartOver:
		return []Command{CommandRestart}, true
	case ButtonPlayAgain:
		return []Command{CommandRestart, CommandStart}, true
	case ButtonExit:
		return nil, true
	default:
		return nil, false
	}
}
