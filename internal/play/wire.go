package play

import (
	"github.com/vovakirdan/tilt-catch/internal/games/catch/sim"
	"github.com/vovakirdan/tilt-catch/internal/motion"
)

// Broadcaster pushes a message to every connected phone.
// *motion.Server implements it.
type Broadcaster interface {
	Broadcast(t string, payload any) error
}

// EventPayload converts a simulation event to its wire form.
func EventPayload(e sim.Event) motion.Event {
	out := motion.Event{Tick: e.EventTick()}
	switch ev := e.(type) {
	case sim.ItemSpawned:
		out.Type = "spawned"
		out.ItemID = ev.ID
		out.Kind = ev.Kind.String()
		out.X = ev.X
	case sim.ItemRemoved:
		out.Type = "removed"
		out.ItemID = ev.ID
		out.Kind = ev.Kind.String()
		out.Outcome = ev.Outcome.String()
	case sim.CatcherMoved:
		out.Type = "catcher"
		out.X = ev.X
	case sim.ScoreChanged:
		out.Type = "score"
		out.Score = ev.Score
	case sim.StateChanged:
		out.Type = "state"
		out.From = ev.From.String()
		out.To = ev.To.String()
	}
	return out
}

// StatePayload converts a snapshot to its wire summary.
func StatePayload(snap sim.Snapshot) motion.State {
	return motion.State{
		Tick:     snap.Tick,
		State:    snap.State.String(),
		Score:    snap.Score,
		WinScore: snap.WinScore,
		Items:    len(snap.Items),
	}
}

// Mirror forwards play to phones: scoring and state events as they happen
// and a state summary every stateEvery ticks. Catcher and spawn events
// are left out; the phone only shows the score line.
type Mirror struct {
	b          Broadcaster
	stateEvery uint64
}

// NewMirror creates a mirror. stateEvery below 1 means every tick.
func NewMirror(b Broadcaster, stateEvery int) *Mirror {
	if stateEvery < 1 {
		stateEvery = 1
	}
	return &Mirror{b: b, stateEvery: uint64(stateEvery)}
}

// Observe forwards one tick. Broadcast errors only mean a bad payload and
// are dropped.
func (m *Mirror) Observe(events []sim.Event, snap sim.Snapshot) {
	changed := false
	for _, e := range events {
		switch e.(type) {
		case sim.ItemRemoved, sim.ScoreChanged, sim.StateChanged:
			_ = m.b.Broadcast(motion.MsgEvent, EventPayload(e))
			changed = true
		}
	}
	if changed || snap.Tick%m.stateEvery == 0 {
		_ = m.b.Broadcast(motion.MsgState, StatePayload(snap))
	}
}
