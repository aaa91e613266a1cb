package sim

import (
	"math"

	"github.com/vovakirdan/tilt-catch/internal/core"
)

// Item is a falling object. X and Y are its center.
type Item struct {
	ID   uint64
	Kind ItemKind
	X, Y float64
	VY   float64 // Vertical velocity, negative is falling
	W, H float64

	PrevY float64 // Y before the last integration step
}

// Box returns the item's collision bounds.
func (it Item) Box() core.Box {
	return core.NewBox(it.X, it.Y, it.W, it.H)
}

// SweptBox covers everything the item passed through during the last step,
// so a fast item cannot tunnel through the catcher.
func (it Item) SweptBox() core.Box {
	travel := math.Abs(it.PrevY - it.Y)
	return core.NewBox(it.X, (it.PrevY+it.Y)/2, it.W, it.H+travel)
}

// Catcher is the player-controlled avatar. Its Y never changes.
type Catcher struct {
	X, Y   float64
	W, H   float64
	Facing Facing
}

// Box returns the catcher's collision bounds.
func (c Catcher) Box() core.Box {
	return core.NewBox(c.X, c.Y, c.W, c.H)
}

// Ground is the invisible strip along the bottom that detects misses.
type Ground struct {
	Box core.Box
}

// Contact is an overlap between an item and a static body.
type Contact struct {
	ItemID uint64
	A, B   Role
}

// Arena owns the catcher, the ground and every falling item.
type Arena struct {
	width, height float64
	minX, maxX    float64
	itemW, itemH  float64
	catcher       Catcher
	ground        Ground
	items         []Item // ascending ID
	nextID        uint64
}

// NewArena creates an arena with the catcher centered and no items.
func NewArena(cfg Config) *Arena {
	margin := math.Max(cfg.CatcherWidth/2, cfg.CatcherPadding)
	a := &Arena{
		width:  cfg.ArenaWidth,
		height: cfg.ArenaHeight,
		minX:   margin,
		maxX:   cfg.ArenaWidth - margin,
		itemW:  cfg.ItemWidth,
		itemH:  cfg.ItemHeight,
		catcher: Catcher{
			X: cfg.ArenaWidth / 2,
			Y: cfg.catcherY(),
			W: cfg.CatcherWidth,
			H: cfg.CatcherHeight,
		},
		ground: Ground{
			Box: core.NewBox(cfg.ArenaWidth/2, cfg.GroundHeight/2, cfg.ArenaWidth, cfg.GroundHeight),
		},
		nextID: 1,
	}
	// A zero-height ground would never overlap anything.
	if cfg.GroundHeight == 0 {
		a.ground.Box.H = 1
		a.ground.Box.CY = -0.5
	}
	return a
}

// Width returns the arena width.
func (a *Arena) Width() float64 { return a.width }

// Height returns the arena height.
func (a *Arena) Height() float64 { return a.height }

// Catcher returns a copy of the catcher.
func (a *Arena) Catcher() Catcher { return a.catcher }

// Ground returns the ground body.
func (a *Arena) Ground() Ground { return a.ground }

// CatcherRange returns the allowed interval for the catcher's center.
func (a *Arena) CatcherRange() (min, max float64) { return a.minX, a.maxX }

// Items returns a copy of the live items in ID order.
func (a *Arena) Items() []Item {
	out := make([]Item, len(a.items))
	copy(out, a.items)
	return out
}

// Item looks up a live item.
func (a *Arena) Item(id uint64) (Item, bool) {
	if i := a.index(id); i >= 0 {
		return a.items[i], true
	}
	return Item{}, false
}

// Add places a new item at rest and returns it.
func (a *Arena) Add(kind ItemKind, x, y float64) Item {
	it := Item{
		ID:   a.nextID,
		Kind: kind,
		X:    x,
		Y:    y,
		W:    a.itemW,
		H:    a.itemH,

		PrevY: y,
	}
	a.nextID++
	a.items = append(a.items, it)
	return it
}

// MoveCatcher shifts the catcher by delta, clamped to its range.
// It reports whether the position changed.
func (a *Arena) MoveCatcher(delta float64) bool {
	next := core.ClampF(a.catcher.X+delta, a.minX, a.maxX)
	if next == a.catcher.X {
		return false
	}
	a.catcher.X = next
	return true
}

// SetFacing updates the catcher's facing.
func (a *Arena) SetFacing(f Facing) {
	a.catcher.Facing = f
}

// Integrate advances every item by dt seconds under accel (semi-implicit Euler).
func (a *Arena) Integrate(dt, accel float64) {
	for i := range a.items {
		a.items[i].PrevY = a.items[i].Y
		a.items[i].VY += accel * dt
		a.items[i].Y += a.items[i].VY * dt
	}
}

// Contacts lists current overlaps. Items are visited in ID order and a
// catcher contact is listed before a ground contact for the same item.
// Anything below the ground's top edge touches the ground.
// Items never collide with each other.
func (a *Arena) Contacts() []Contact {
	var out []Contact
	cb := a.catcher.Box()
	groundTop := a.ground.Box.Top()
	for _, it := range a.items {
		if it.SweptBox().Intersects(cb) {
			out = append(out, Contact{ItemID: it.ID, A: it.Kind.Role(), B: RoleCatcher})
		}
		if it.Box().Bottom() < groundTop {
			out = append(out, Contact{ItemID: it.ID, A: RoleGround, B: it.Kind.Role()})
		}
	}
	return out
}

// Escaped returns items that are entirely below the arena floor.
// With a ground in place this should stay empty.
func (a *Arena) Escaped() []uint64 {
	var out []uint64
	for _, it := range a.items {
		if it.Box().Top() < 0 {
			out = append(out, it.ID)
		}
	}
	return out
}

// Remove deletes an item. Removing an unknown or already removed item is a
// no-op that returns false.
func (a *Arena) Remove(id uint64) bool {
	i := a.index(id)
	if i < 0 {
		return false
	}
	a.items = append(a.items[:i], a.items[i+1:]...)
	return true
}

// Clear removes every item and returns their IDs.
func (a *Arena) Clear() []uint64 {
	ids := make([]uint64, len(a.items))
	for i, it := range a.items {
		ids[i] = it.ID
	}
	a.items = a.items[:0]
	return ids
}

func (a *Arena) index(id uint64) int {
	for i := range a.items {
		if a.items[i].ID == id {
			return i
		}
	}
	return -1
}
