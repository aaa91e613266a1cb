package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, H, Left arrow - tilt left
	ActionRight          // D, L, Right arrow - tilt right
	ActionConfirm        // Enter, Space - start / play again
	ActionPause          // P - pause or resume
	ActionRestart        // R - start over
	ActionBack           // B, Escape - back to menu
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is everything the platform collected for one simulation tick:
// discrete actions plus, optionally, one analog tilt reading.
type InputFrame struct {
	Actions map[Action]bool

	// Tilt is a raw horizontal tilt sample, valid only when HasTilt is set.
	Tilt    float64
	HasTilt bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// SetTilt records a tilt sample. A later sample in the same frame wins.
func (f *InputFrame) SetTilt(v float64) {
	f.Tilt = v
	f.HasTilt = true
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Tilt = 0
	f.HasTilt = false
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Tilt = f.Tilt
	clone.HasTilt = f.HasTilt
	return clone
}
