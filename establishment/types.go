package establishment

import "fmt"

// Hygiene is the latent quality of an establishment. It is fixed for one
// operating lifetime and rerolled at every start-up.
type Hygiene int

// Hygiene levels.
const (
	Good Hygiene = iota
	Bad
)

func (h Hygiene) String() string {
	switch h {
	case Good:
		return "Good"
	case Bad:
		return "Bad"
	default:
		return fmt.Sprintf("Hygiene(%d)", int(h))
	}
}

// Rating is the publicly visible outcome of inspections.
type Rating int

// Ratings. Closed doubles as the dormant state of an establishment.
const (
	Closed Rating = iota
	Unrated
	BroadlyCompliant
	PoorlyCompliant
)

func (r Rating) String() string {
	switch r {
	case Closed:
		return "Closed"
	case Unrated:
		return "Unrated"
	case BroadlyCompliant:
		return "Broadly compliant"
	case PoorlyCompliant:
		return "Poorly compliant"
	default:
		return fmt.Sprintf("Rating(%d)", int(r))
	}
}

// Position identifies an establishment. The coordinates carry no spatial
// meaning for the model.
type Position struct {
	X int
	Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Snapshot is a copy of the readable state of an establishment.
type Snapshot struct {
	Position          Position
	Hygiene           Hygiene
	Rating            Rating
	WeeksToInspection int
	Savings           float64
}
