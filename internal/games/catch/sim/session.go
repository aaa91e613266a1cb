package sim

import (
	"fmt"
	"time"
)

// Input is what the shell hands the session for one tick.
type Input struct {
	Dt      time.Duration
	Tilt    float64 // Raw horizontal tilt, read only when HasTilt is set
	HasTilt bool
}

// StepResult is the outcome of one tick.
type StepResult struct {
	Tick   uint64
	State  State
	Score  int
	Events []Event
}

// Stats counts what happened during the current session.
type Stats struct {
	Spawned       int
	Catches       int
	Misses        int
	HazardsCaught int
	HazardsMissed int
	PlayTicks     uint64
	PlayTime      time.Duration
}

// Tuning is the part of the config a Tuner may adjust while playing.
type Tuning struct {
	GravityScale  float64
	SpawnInterval time.Duration
	GoodPercent   int
}

// Tuner adjusts tuning as a session progresses.
type Tuner interface {
	Tune(base Tuning, score int, playTicks uint64) Tuning
}

// Session is one play-through from Instructions to Won or Lost.
// It is not safe for concurrent use; a single tick loop owns it.
type Session struct {
	cfg   Config
	rng   Rand
	tuner Tuner

	state        State
	score        int
	tick         uint64
	arena        *Arena
	spawner      *Spawner
	filter       *TiltFilter
	gravityScale float64
	stats        Stats

	pending []Command
	events  []Event
}

// NewSession validates cfg and returns a session showing instructions.
func NewSession(cfg Config, rng Rand) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidConfig)
	}

	s := &Session{
		cfg:   cfg,
		rng:   rng,
		state: StateInstructions,
	}
	s.fresh()
	return s, nil
}

func (s *Session) fresh() {
	s.arena = NewArena(s.cfg)
	s.spawner = NewSpawner(s.rng, s.cfg)
	s.filter = NewTiltFilter(s.cfg.Tilt)
	s.gravityScale = 1
	s.score = 0
	s.stats = Stats{}
}

// SetTuner installs a tuner consulted once per playing tick. Nil removes it.
func (s *Session) SetTuner(t Tuner) {
	s.tuner = t
}

// Submit queues a command for the start of the next tick.
func (s *Session) Submit(cmd Command) {
	s.pending = append(s.pending, cmd)
}

// Step applies queued commands and, while playing, advances the world.
func (s *Session) Step(in Input) StepResult {
	s.tick++
	s.events = nil

	for _, cmd := range s.pending {
		s.apply(cmd)
	}
	s.pending = s.pending[:0]

	if s.state == StatePlaying {
		s.advance(in)
	}

	return StepResult{
		Tick:   s.tick,
		State:  s.state,
		Score:  s.score,
		Events: s.events,
	}
}

// apply runs one command. Commands that make no sense in the current
// state are ignored.
func (s *Session) apply(cmd Command) {
	switch cmd {
	case CommandStart:
		if s.state != StateInstructions {
			return
		}
		s.fresh()
		s.transition(StatePlaying)
		s.emit(ScoreChanged{Score: 0})
		c := s.arena.Catcher()
		s.emit(CatcherMoved{X: c.X, Facing: c.Facing})

	case CommandPause:
		if s.state == StatePlaying {
			s.transition(StatePaused)
		}

	case CommandResume:
		if s.state == StatePaused {
			s.transition(StatePlaying)
		}

	case CommandRestart:
		if !s.state.Terminal() && s.state != StatePaused {
			return
		}
		for _, it := range s.arena.Items() {
			s.arena.Remove(it.ID)
			s.emit(ItemRemoved{ID: it.ID, Kind: it.Kind})
		}
		old := s.score
		s.fresh()
		s.transition(StateInstructions)
		if old != 0 {
			s.emit(ScoreChanged{Score: 0, Delta: -old})
		}
	}
}

func (s *Session) advance(in Input) {
	s.stats.PlayTicks++
	s.stats.PlayTime += in.Dt

	if in.HasTilt {
		s.applyTilt(in.Tilt)
	}
	s.retune()

	s.arena.Integrate(in.Dt.Seconds(), s.cfg.gravityAccel()*s.gravityScale)

	for _, c := range s.arena.Contacts() {
		if s.state != StatePlaying {
			return
		}
		s.resolve(c)
	}
	if s.state != StatePlaying {
		return
	}

	for _, id := range s.arena.Escaped() {
		if it, ok := s.arena.Item(id); ok && s.arena.Remove(id) {
			s.emit(ItemRemoved{ID: id, Kind: it.Kind})
		}
	}

	for _, sp := range s.spawner.Advance(in.Dt) {
		it := s.arena.Add(sp.Kind, sp.X, sp.Y)
		s.stats.Spawned++
		s.emit(ItemSpawned{ID: it.ID, Kind: it.Kind, X: it.X, Y: it.Y})
	}
}

func (s *Session) applyTilt(raw float64) {
	cmd := s.filter.Apply(raw)
	moved := s.arena.MoveCatcher(cmd.Delta)
	if cmd.Flipped {
		s.arena.SetFacing(cmd.Facing)
	}
	if moved || cmd.Flipped {
		c := s.arena.Catcher()
		s.emit(CatcherMoved{X: c.X, Facing: c.Facing, Flipped: cmd.Flipped})
	}
}

func (s *Session) retune() {
	if s.tuner == nil {
		return
	}
	base := Tuning{
		GravityScale:  1,
		SpawnInterval: s.cfg.SpawnInterval,
		GoodPercent:   s.cfg.GoodPercent,
	}
	t := s.tuner.Tune(base, s.score, s.stats.PlayTicks)
	if t.GravityScale > 0 {
		s.gravityScale = t.GravityScale
	}
	s.spawner.Retune(t.SpawnInterval, t.GoodPercent)
}

// resolve applies one contact and reports whether it consumed an item.
// A contact against an item that is already gone changes nothing.
func (s *Session) resolve(c Contact) bool {
	if s.state != StatePlaying {
		return false
	}
	outcome := Resolve(c.A, c.B)
	if !outcome.Consumes() {
		return false
	}
	it, ok := s.arena.Item(c.ItemID)
	if !ok || !s.arena.Remove(c.ItemID) {
		return false
	}
	s.emit(ItemRemoved{ID: it.ID, Kind: it.Kind, Outcome: outcome})

	switch outcome {
	case OutcomeCatch:
		s.stats.Catches++
		s.addScore(s.cfg.CatchPoints)
		if s.score >= s.cfg.WinScore {
			s.transition(StateWon)
		}
	case OutcomeMiss:
		s.stats.Misses++
		s.addScore(-s.cfg.MissPenalty)
		if s.score < 0 {
			s.transition(StateLost)
		}
	case OutcomeHazard:
		s.stats.HazardsCaught++
		s.transition(StateLost)
	case OutcomeDiscard:
		s.stats.HazardsMissed++
	}
	return true
}

func (s *Session) addScore(delta int) {
	if s.state != StatePlaying || delta == 0 {
		return
	}
	s.score += delta
	s.emit(ScoreChanged{Score: s.score, Delta: delta})
}

func (s *Session) transition(to State) {
	from := s.state
	if from == to {
		return
	}
	s.state = to
	s.emit(StateChanged{From: from, To: to})
}

// emit stamps the current tick on e and records it.
func (s *Session) emit(e Event) {
	switch v := e.(type) {
	case ItemSpawned:
		v.Tick = s.tick
		e = v
	case ItemRemoved:
		v.Tick = s.tick
		e = v
	case CatcherMoved:
		v.Tick = s.tick
		e = v
	case ScoreChanged:
		v.Tick = s.tick
		e = v
	case StateChanged:
		v.Tick = s.tick
		e = v
	}
	s.events = append(s.events, e)
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Tick returns the number of steps taken.
func (s *Session) Tick() uint64 { return s.tick }

// Stats returns counters for the current session.
func (s *Session) Stats() Stats { return s.stats }

// Config returns the session's configuration.
func (s *Session) Config() Config { return s.cfg }

// Arena exposes the arena for rendering. Callers must not mutate it.
func (s *Session) Arena() *Arena { return s.arena }
