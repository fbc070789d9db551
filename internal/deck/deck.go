package deck

// Profile is an immutable candidate snapshot for one deck session. Updates in
// the backing store are not observed until the next Reload.
type Profile struct {
	ID       string
	Name     string
	Age      int
	Gender   string
	City     string
	Sports   []string
	ImageURL string
	// Liked holds the ids this profile had liked when the pool was loaded.
	// The resolver never trusts it for reciprocity checks, it re-reads fresh.
	Liked []string
}

// FilterState is the conjunction of optional predicates applied to the pool.
// Zero values mean the predicate is off.
type FilterState struct {
	Sports []string
	Gender string
	City   string
	MinAge *int
	MaxAge *int
}

// Matches reports whether p passes every enabled predicate.
func (f FilterState) Matches(p Profile) bool {
	if len(f.Sports) > 0 && !intersects(p.Sports, f.Sports) {
		return false
	}
	if f.Gender != "" && p.Gender != f.Gender {
		return false
	}
	if f.City != "" && p.City != f.City {
		return false
	}
	if f.MinAge != nil && p.Age < *f.MinAge {
		return false
	}
	if f.MaxAge != nil && p.Age > *f.MaxAge {
		return false
	}
	return true
}

// State describes the deck lifecycle.
type State int

const (
	// StateIdle means no load has completed yet, or one is in flight.
	StateIdle State = iota
	// StateReady means the cursor points at an interactive card.
	StateReady
	// StateExhausted means every card in the active deck has been swiped,
	// or the deck is empty.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Direction is the committed swipe direction. Right records a like, left is a
// pass with no backend effect.
type Direction int

const (
	DirectionLeft Direction = iota
	DirectionRight
)

func (d Direction) String() string {
	if d == DirectionRight {
		return "right"
	}
	return "left"
}

// Offset is the animated 2D position of a card relative to its rest origin.
type Offset struct {
	X float64
	Y float64
}

// applyFilter is the pure projection from (pool, filter, swiped) to the
// active deck. Order of survivors follows the pool order.
func applyFilter(pool []Profile, filter FilterState, swiped map[string]struct{}) []Profile {
	out := make([]Profile, 0, len(pool))
	for _, p := range pool {
		if _, seen := swiped[p.ID]; seen {
			continue
		}
		if !filter.Matches(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func intersects(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
