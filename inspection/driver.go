package inspection

import (
	"fmt"

	"github.com/sarchlab/hygienesim/sim"
)

// SecondsPerWeek is the length of one period on the engine timeline.
const SecondsPerWeek = 7 * 24 * 60 * 60

// WeeklyFreq ticks once per simulated week.
var WeeklyFreq = sim.Freq(1.0 / SecondsPerWeek)

// A Driver is a ticking component that steps a model once per tick until a
// number of periods has been completed.
type Driver struct {
	*sim.TickingComponent

	model  *Model
	target int
}

// NewDriver creates a driver that runs periods more periods of the model on
// the engine.
func NewDriver(
	name string,
	engine sim.Engine,
	model *Model,
	periods int,
) (*Driver, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("%w: periods must be positive, got %d",
			ErrInvalidConfiguration, periods)
	}

	d := &Driver{
		model:  model,
		target: model.Len() + periods,
	}
	d.TickingComponent = sim.NewTickingComponent(name, engine, WeeklyFreq, d)

	return d, nil
}

// Start schedules the first period.
func (d *Driver) Start() {
	d.TickLater()
}

// Tick runs one period. It reports whether more periods remain.
func (d *Driver) Tick() bool {
	if d.Done() {
		return false
	}

	d.model.Step()

	return !d.Done()
}

// Done tells if all the periods have been run.
func (d *Driver) Done() bool {
	return d.model.Len() >= d.target
}

// Model returns the driven model.
func (d *Driver) Model() *Model {
	return d.model
}
