// Package inspection composes establishments into a population that is
// advanced one period at a time and summarized after every period.
package inspection

import (
	"fmt"
	"log"

	"github.com/sarchlab/hygienesim/establishment"
	"github.com/sarchlab/hygienesim/rng"
	"github.com/sarchlab/hygienesim/sim"
)

// HookPosPeriodEnd triggers after every period, once the record of that
// period has been appended. The hook item is the Record and the detail is the
// Model.
var HookPosPeriodEnd = &sim.HookPos{Name: "PeriodEnd"}

// Record summarizes the population at the end of one period.
type Record struct {
	// Period counts completed steps from 0.
	Period int

	// Good and Bad count open establishments by hygiene.
	Good int
	Bad  int
}

// Open returns the number of open establishments in the period.
func (r Record) Open() int {
	return r.Good + r.Bad
}

// A Model owns a fixed population of establishments and their aggregate
// history.
type Model struct {
	sim.HookableBase

	config Config
	src    rng.Source

	establishments []*establishment.Establishment
	index          map[establishment.Position]int
	order          []int
	series         []Record
}

// New creates a model. Every site is populated with a closed establishment
// with probability config.Density, one draw per site.
func New(config Config, src rng.Source) (*Model, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	if src == nil {
		return nil, fmt.Errorf("%w: random source is nil",
			ErrInvalidConfiguration)
	}

	m := &Model{
		config: config,
		src:    src,
		index:  make(map[establishment.Position]int),
	}

	m.populate()

	return m, nil
}

func (m *Model) populate() {
	for x := 0; x < m.config.Width; x++ {
		for y := 0; y < m.config.Height; y++ {
			if m.src.Float64() >= m.config.Density {
				continue
			}

			pos := establishment.Position{X: x, Y: y}
			m.index[pos] = len(m.establishments)
			m.order = append(m.order, len(m.establishments))
			m.establishments = append(m.establishments, establishment.New(pos))
		}
	}
}

// Step advances every establishment once, in an order that is reshuffled in
// every period, and appends the record of the period.
func (m *Model) Step() {
	m.src.Shuffle(len(m.order), func(i, j int) {
		m.order[i], m.order[j] = m.order[j], m.order[i]
	})

	for _, i := range m.order {
		m.establishments[i].Step(m.src)
	}

	record := m.count()
	m.series = append(m.series, record)

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    HookPosPeriodEnd,
		Item:   record,
		Detail: m,
	})
}

func (m *Model) count() Record {
	r := Record{Period: len(m.series)}

	for _, e := range m.establishments {
		if !e.IsOpen() {
			continue
		}

		switch e.Hygiene() {
		case establishment.Good:
			r.Good++
		case establishment.Bad:
			r.Bad++
		}
	}

	return r
}

// Config returns the parameters the model was built with.
func (m *Model) Config() Config {
	return m.config
}

// Running always returns true. The model has no natural end; the caller
// decides how many periods to run.
func (m *Model) Running() bool {
	return true
}

// PopulationSize returns the number of establishments.
func (m *Model) PopulationSize() int {
	return len(m.establishments)
}

// Establishments returns the establishments in creation order.
func (m *Model) Establishments() []*establishment.Establishment {
	out := make([]*establishment.Establishment, len(m.establishments))
	copy(out, m.establishments)

	return out
}

// Establishment returns the establishment at pos, if any.
func (m *Model) Establishment(
	pos establishment.Position,
) (*establishment.Establishment, bool) {
	i, ok := m.index[pos]
	if !ok {
		return nil, false
	}

	return m.establishments[i], true
}

// Snapshots returns the readable state of every establishment in creation
// order.
func (m *Model) Snapshots() []establishment.Snapshot {
	out := make([]establishment.Snapshot, 0, len(m.establishments))
	for _, e := range m.establishments {
		out = append(out, e.State())
	}

	return out
}

// Count returns the number of open establishments with hygiene h.
func (m *Model) Count(h establishment.Hygiene) int {
	n := 0

	for _, e := range m.establishments {
		if e.IsOpen() && e.Hygiene() == h {
			n++
		}
	}

	return n
}

// CountClosed returns the number of closed establishments.
func (m *Model) CountClosed() int {
	n := 0

	for _, e := range m.establishments {
		if !e.IsOpen() {
			n++
		}
	}

	return n
}

// Len returns the number of completed periods.
func (m *Model) Len() int {
	return len(m.series)
}

// Record returns the record of the given period. The period must be within
// [0, Len()), otherwise Record panics.
func (m *Model) Record(period int) Record {
	if period < 0 || period >= len(m.series) {
		log.Panicf("period %d is out of range [0, %d)", period, len(m.series))
	}

	return m.series[period]
}

// TimeSeries returns a copy of all the records, indexed by period.
func (m *Model) TimeSeries() []Record {
	out := make([]Record, len(m.series))
	copy(out, m.series)

	return out
}
