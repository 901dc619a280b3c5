// Package establishment implements the per-period state machine of a single
// restaurant subject to hygiene inspection.
package establishment

import (
	"github.com/sarchlab/hygienesim/rng"
)

// Transition constants.
const (
	// InspectionProb is the chance that a due inspection happens in a period.
	InspectionProb = 0.75

	// GoodHygieneProb is the chance that a start-up draws Good hygiene.
	GoodHygieneProb = 0.5

	// ConsistentRatingProb is the chance that an inspection rates an
	// establishment in line with its hygiene.
	ConsistentRatingProb = 0.8

	// BroadlyCompliantWeeks and PoorlyCompliantWeeks are the upper bounds of
	// the next inspection countdown. CountdownSpread is subtracted from them
	// after scaling a uniform draw, giving [base-4, base].
	BroadlyCompliantWeeks = 75
	PoorlyCompliantWeeks  = 25
	CountdownSpread       = 5

	// StartUpSavings is the capital an establishment opens with.
	StartUpSavings = 10.0

	// RevenueScale multiplies the revenue draw.
	RevenueScale = 10.0

	// BroadlyCompliantBonus and PoorlyCompliantPenalty shift revenue by
	// rating. GoodHygieneCost is the compliance overhead of good hygiene.
	BroadlyCompliantBonus  = 0.05
	PoorlyCompliantPenalty = -0.05
	GoodHygieneCost        = -0.0125

	// OperatingCost is deducted from every revenue draw.
	OperatingCost = 0.07
)

// An Establishment is one restaurant. It is created Closed and cycles between
// open and closed for as long as the model runs.
type Establishment struct {
	pos               Position
	hygiene           Hygiene
	rating            Rating
	weeksToInspection int
	savings           float64
}

// New creates a dormant establishment at the given position.
func New(pos Position) *Establishment {
	return &Establishment{
		pos:     pos,
		hygiene: Good,
		rating:  Closed,
	}
}

// Position returns the identity of the establishment.
func (e *Establishment) Position() Position {
	return e.pos
}

// Hygiene returns the current hygiene level.
func (e *Establishment) Hygiene() Hygiene {
	return e.hygiene
}

// Rating returns the current rating.
func (e *Establishment) Rating() Rating {
	return e.rating
}

// WeeksToInspection returns the inspection countdown.
func (e *Establishment) WeeksToInspection() int {
	return e.weeksToInspection
}

// Savings returns the accumulated savings. Savings can be negative.
func (e *Establishment) Savings() float64 {
	return e.savings
}

// IsOpen tells if the establishment is trading.
func (e *Establishment) IsOpen() bool {
	return e.rating != Closed
}

// State returns a copy of the readable state.
func (e *Establishment) State() Snapshot {
	return Snapshot{
		Position:          e.pos,
		Hygiene:           e.hygiene,
		Rating:            e.rating,
		WeeksToInspection: e.weeksToInspection,
		Savings:           e.savings,
	}
}

// Step advances the establishment by one period.
//
// An open establishment is inspected when due, or its countdown is
// decremented otherwise. A closed one starts up. Then an open establishment
// earns revenue and may close. Draws are taken from src in exactly that
// order.
func (e *Establishment) Step(src rng.Source) {
	if e.IsOpen() {
		e.inspectIfDue(src)
	}

	if !e.IsOpen() {
		e.StartUp(src)
	}

	if e.IsOpen() {
		e.trade(src)
	}
}

// A due inspection that fails the gate leaves the countdown at zero, so the
// establishment stays due for the next period.
func (e *Establishment) inspectIfDue(src rng.Source) {
	if e.weeksToInspection != 0 {
		e.weeksToInspection--
		return
	}

	if src.Float64() < InspectionProb {
		e.Inspect(src)
	}
}

func (e *Establishment) trade(src rng.Source) {
	revenue := e.Revenue(src)
	e.savings += revenue

	if revenue >= 0 {
		return
	}

	// revenue/10 is negative here, so the comparison is kept literal.
	if src.Float64() > revenue/10 {
		e.Close()
	}
}

// StartUp opens the establishment with a fresh hygiene draw and start-up
// savings. The countdown stays at zero, so the first inspection is due in the
// next period.
func (e *Establishment) StartUp(src rng.Source) {
	if src.Float64() < GoodHygieneProb {
		e.hygiene = Good
	} else {
		e.hygiene = Bad
	}

	e.rating = Unrated
	e.savings = StartUpSavings
}

// Close shuts the establishment down and resets it to the dormant state.
func (e *Establishment) Close() {
	e.hygiene = Good
	e.rating = Closed
	e.savings = 0
	e.weeksToInspection = 0
}

// Inspect rates the establishment and schedules the next inspection. It takes
// two draws: one deciding the rating and one deciding the countdown.
func (e *Establishment) Inspect(src rng.Source) {
	consistent := src.Float64() < ConsistentRatingProb

	broadly := consistent
	if e.hygiene == Bad {
		broadly = !consistent
	}

	if broadly {
		e.rating = BroadlyCompliant
		e.weeksToInspection = countdown(BroadlyCompliantWeeks, src)
	} else {
		e.rating = PoorlyCompliant
		e.weeksToInspection = countdown(PoorlyCompliantWeeks, src)
	}
}

func countdown(base int, src rng.Source) int {
	return base - int(CountdownSpread*src.Float64())
}

// Revenue draws the revenue of one period. It does not change the state.
func (e *Establishment) Revenue(src rng.Source) float64 {
	return RevenueScale * (src.Float64() +
		ratingAdjustment(e.rating) +
		hygieneAdjustment(e.hygiene) -
		OperatingCost)
}

func ratingAdjustment(r Rating) float64 {
	switch r {
	case BroadlyCompliant:
		return BroadlyCompliantBonus
	case PoorlyCompliant:
		return PoorlyCompliantPenalty
	default:
		return 0
	}
}

func hygieneAdjustment(h Hygiene) float64 {
	if h == Good {
		return GoodHygieneCost
	}

	return 0
}
