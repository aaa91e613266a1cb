package sim

// Event is something the shell may want to render, play or log.
// Every event carries the tick it happened on.
type Event interface {
	EventTick() uint64
	simEvent()
}

// ItemSpawned reports a new falling item.
type ItemSpawned struct {
	Tick uint64
	ID   uint64
	Kind ItemKind
	X, Y float64
}

// ItemRemoved reports that an item left the arena.
type ItemRemoved struct {
	Tick    uint64
	ID      uint64
	Kind    ItemKind
	Outcome Outcome // OutcomeNone when cleared by restart or escape
}

// CatcherMoved reports a new catcher position or facing.
type CatcherMoved struct {
	Tick    uint64
	X       float64
	Facing  Facing
	Flipped bool
}

// ScoreChanged reports the new score.
type ScoreChanged struct {
	Tick  uint64
	Score int
	Delta int
}

// StateChanged reports a state machine transition.
type StateChanged struct {
	Tick uint64
	From State
	To   State
}

func (e ItemSpawned) EventTick() uint64  { return e.Tick }
func (e ItemRemoved) EventTick() uint64  { return e.Tick }
func (e CatcherMoved) EventTick() uint64 { return e.Tick }
func (e ScoreChanged) EventTick() uint64 { return e.Tick }
func (e StateChanged) EventTick() uint64 { return e.Tick }

func (ItemSpawned) simEvent()  {}
func (ItemRemoved) simEvent()  {}
func (CatcherMoved) simEvent() {}
func (ScoreChanged) simEvent() {}
func (StateChanged) simEvent() {}
