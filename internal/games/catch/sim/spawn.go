package sim

import "time"

// Rand is the random source the scheduler draws from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Spawn is one scheduled item, not yet in the arena.
type Spawn struct {
	Kind ItemKind
	X, Y float64
}

// Spawner emits one spawn per elapsed interval.
// It only advances while the session is playing, so pauses freeze it.
type Spawner struct {
	rng         Rand
	interval    time.Duration
	goodPercent int
	elapsed     time.Duration

	arenaW float64
	itemW  float64
	y      float64
}

// NewSpawner creates a scheduler for the given config.
func NewSpawner(rng Rand, cfg Config) *Spawner {
	return &Spawner{
		rng:         rng,
		interval:    cfg.SpawnInterval,
		goodPercent: cfg.GoodPercent,
		arenaW:      cfg.ArenaWidth,
		itemW:       cfg.ItemWidth,
		y:           cfg.spawnY(),
	}
}

// Decide draws 1..100 and returns Good when the roll is within goodPercent.
func (s *Spawner) Decide() ItemKind {
	roll := s.rng.Intn(100) + 1
	if roll <= s.goodPercent {
		return ItemGood
	}
	return ItemHazard
}

// PositionX returns a center x that keeps the whole item inside the arena.
func (s *Spawner) PositionX() float64 {
	half := s.itemW / 2
	return half + s.rng.Float64()*(s.arenaW-s.itemW)
}

// Advance accumulates dt and returns the spawns that came due.
// A long dt yields several spawns, each with its own draw.
func (s *Spawner) Advance(dt time.Duration) []Spawn {
	s.elapsed += dt

	var out []Spawn
	for s.elapsed >= s.interval {
		s.elapsed -= s.interval
		kind := s.Decide()
		out = append(out, Spawn{Kind: kind, X: s.PositionX(), Y: s.y})
	}
	return out
}

// Elapsed returns time accumulated toward the next spawn.
func (s *Spawner) Elapsed() time.Duration {
	return s.elapsed
}

// Interval returns the current spawn period.
func (s *Spawner) Interval() time.Duration {
	return s.interval
}

// GoodPercent returns the current good-item probability in percent.
func (s *Spawner) GoodPercent() int {
	return s.goodPercent
}

// Retune changes the period and probability without losing accumulated time.
// Non-positive intervals and out-of-range percentages are ignored.
func (s *Spawner) Retune(interval time.Duration, goodPercent int) {
	if interval > 0 {
		s.interval = interval
	}
	if goodPercent >= 0 && goodPercent <= 100 {
		s.goodPercent = goodPercent
	}
}

// Reset zeroes the accumulator.
func (s *Spawner) Reset() {
	s.elapsed = 0
}
