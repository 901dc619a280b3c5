// Package simulation assembles a complete run: the model, the engine that
// steps it once a week, and the hooks that observe it.
package simulation

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/sarchlab/hygienesim/datarecording"
	"github.com/sarchlab/hygienesim/inspection"
	"github.com/sarchlab/hygienesim/monitoring"
	"github.com/sarchlab/hygienesim/sim"
	"github.com/sarchlab/hygienesim/tracing"
)

// A Simulation is one assembled run.
type Simulation struct {
	id   string
	seed int64

	engine sim.Engine
	model  *inspection.Model
	driver *inspection.Driver

	recorder     datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	monitor      *monitoring.Monitor
	progress     *monitoring.ProgressBar
	summary      *tracing.SummaryTracer

	terminated atomic.Bool
}

// ID returns the unique ID of the run.
func (s *Simulation) ID() string {
	return s.id
}

// Seed returns the seed the random source was created with.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Engine returns the engine used in the simulation.
func (s *Simulation) Engine() sim.Engine {
	return s.engine
}

// Model returns the simulated population.
func (s *Simulation) Model() *inspection.Model {
	return s.model
}

// Driver returns the component that steps the model.
func (s *Simulation) Driver() *inspection.Driver {
	return s.driver
}

// DataRecorder returns the data recorder, or nil when recording is disabled.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.recorder
}

// Monitor returns the monitor of the run.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// Summary returns the aggregates of the periods run so far.
func (s *Simulation) Summary() tracing.Summary {
	return s.summary.Summary()
}

// Run runs all the periods.
func (s *Simulation) Run() error {
	if s.terminated.Load() {
		return fmt.Errorf("simulation %s is terminated", s.id)
	}

	s.driver.Start()

	err := s.engine.Run()
	if err != nil {
		return fmt.Errorf("simulation %s: %w", s.id, err)
	}

	s.engine.Finished()

	return nil
}

// Handle completes the progress bar when the engine finishes.
func (s *Simulation) Handle(_ sim.VTimeInSec) {
	if s.progress != nil {
		s.monitor.CompleteProgressBar(s.progress)
	}

	if s.recorder != nil {
		s.recorder.Flush()
	}
}

// Terminate writes the run metadata and closes the data recorder. It is safe
// to call more than once.
func (s *Simulation) Terminate() error {
	return s.close(false)
}

// Interrupt stops the engine once the period being run completes, then
// records how far the run got and closes the data recorder. It is safe to
// call from another goroutine. A Run in progress never returns afterwards,
// so the process is expected to exit.
func (s *Simulation) Interrupt() error {
	s.engine.Pause()

	return s.close(true)
}

func (s *Simulation) close(interrupted bool) error {
	if !s.terminated.CompareAndSwap(false, true) {
		return nil
	}

	if s.recorder == nil {
		return nil
	}

	if interrupted {
		s.execRecorder.AddProperty("Interrupted At Period",
			strconv.Itoa(s.model.Len()))
	}

	s.execRecorder.End()

	return s.recorder.Close()
}
