package sim

// Outcome is what a contact does to the session.
type Outcome int

const (
	OutcomeNone    Outcome = iota // Not a scoring contact
	OutcomeCatch                  // Good item caught
	OutcomeMiss                   // Good item reached the ground
	OutcomeHazard                 // Hazard item caught, session lost
	OutcomeDiscard                // Hazard item reached the ground, removed quietly
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCatch:
		return "catch"
	case OutcomeMiss:
		return "miss"
	case OutcomeHazard:
		return "hazard"
	case OutcomeDiscard:
		return "discard"
	default:
		return "none"
	}
}

// Resolve maps a pair of roles to an outcome. The order of a and b does
// not matter.
func Resolve(a, b Role) Outcome {
	if !a.IsItem() {
		a, b = b, a
	}
	if !a.IsItem() || b.IsItem() {
		return OutcomeNone
	}

	switch {
	case a == RoleGoodItem && b == RoleCatcher:
		return OutcomeCatch
	case a == RoleGoodItem && b == RoleGround:
		return OutcomeMiss
	case a == RoleHazardItem && b == RoleCatcher:
		return OutcomeHazard
	case a == RoleHazardItem && b == RoleGround:
		return OutcomeDiscard
	default:
		return OutcomeNone
	}
}

// Consumes reports whether the outcome removes the item.
func (o Outcome) Consumes() bool {
	return o != OutcomeNone
}
