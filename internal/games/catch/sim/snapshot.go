package sim

import (
	"fmt"
	"hash/fnv"
	"time"
)

// Snapshot is a flat copy of session state for rendering, broadcast and
// determinism checks.
type Snapshot struct {
	Tick     uint64
	State    State
	Score    int
	WinScore int
	ArenaW   float64
	ArenaH   float64
	Catcher  Catcher
	Items    []Item
	SpawnIn  time.Duration // Time until the next spawn
	Stats    Stats
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:     s.tick,
		State:    s.state,
		Score:    s.score,
		WinScore: s.cfg.WinScore,
		ArenaW:   s.arena.Width(),
		ArenaH:   s.arena.Height(),
		Catcher:  s.arena.Catcher(),
		Items:    s.arena.Items(),
		SpawnIn:  s.spawner.Interval() - s.spawner.Elapsed(),
		Stats:    s.stats,
	}
}

// Hash returns a digest of the snapshot for determinism testing.
func (snap Snapshot) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "T:%d;S:%d;P:%d;", snap.Tick, snap.State, snap.Score)
	fmt.Fprintf(h, "C:%.6f:%d;", snap.Catcher.X, snap.Catcher.Facing)
	for _, it := range snap.Items {
		fmt.Fprintf(h, "I:%d:%d:%.6f:%.6f:%.6f;", it.ID, it.Kind, it.X, it.Y, it.VY)
	}
	fmt.Fprintf(h, "N:%d:%d:%d:%d:%d", snap.Stats.Spawned, snap.Stats.Catches,
		snap.Stats.Misses, snap.Stats.HazardsCaught, snap.Stats.HazardsMissed)
	return h.Sum64()
}
