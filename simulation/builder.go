package simulation

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/hygienesim/config"
	"github.com/sarchlab/hygienesim/datarecording"
	"github.com/sarchlab/hygienesim/inspection"
	"github.com/sarchlab/hygienesim/monitoring"
	"github.com/sarchlab/hygienesim/rng"
	"github.com/sarchlab/hygienesim/sim"
	"github.com/sarchlab/hygienesim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	seed           int64
	height         int
	width          int
	density        float64
	periods        int
	outputFileName string
	recording      bool
	logger         *log.Logger
	eventLogger    *log.Logger
	progressBar    bool
	src            rng.Source
}

// MakeBuilder creates a new builder with the default parameters.
func MakeBuilder() Builder {
	return MakeBuilderFromConfig(config.Default())
}

// MakeBuilderFromConfig creates a builder that carries the parameters of a
// configuration.
func MakeBuilderFromConfig(c config.Config) Builder {
	return Builder{
		seed:           c.Seed,
		height:         c.Height,
		width:          c.Width,
		density:        c.Density,
		periods:        c.Periods,
		outputFileName: c.Output,
		recording:      !c.NoRecord,
	}
}

// WithSeed sets the seed of the random source. Zero picks a seed from the
// wall clock.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithGrid sets the size of the grid.
func (b Builder) WithGrid(height, width int) Builder {
	b.height = height
	b.width = width

	return b
}

// WithDensity sets the probability that a site holds an establishment.
func (b Builder) WithDensity(density float64) Builder {
	b.density = density
	return b
}

// WithPeriods sets the number of weeks to run.
func (b Builder) WithPeriods(periods int) Builder {
	b.periods = periods
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithoutRecording disables the data recorder.
func (b Builder) WithoutRecording() Builder {
	b.recording = false
	return b
}

// WithLogger prints one line per period into the logger.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// WithEventLogger prints every event handled by the engine into the logger.
func (b Builder) WithEventLogger(logger *log.Logger) Builder {
	b.eventLogger = logger
	return b
}

// WithProgressBar tracks the finished periods with a progress bar on the
// monitor.
func (b Builder) WithProgressBar() Builder {
	b.progressBar = true
	return b
}

// WithSource replaces the seeded random source. The seed is then unused and
// the recording marks the source as injected.
func (b Builder) WithSource(src rng.Source) Builder {
	b.src = src
	return b
}

func (b Builder) modelConfig() inspection.Config {
	return inspection.Config{
		Height:  b.height,
		Width:   b.width,
		Density: b.density,
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	seed := b.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	src := b.src
	if src == nil {
		src = rng.New(seed)
	}

	s := &Simulation{
		id:      xid.New().String(),
		seed:    seed,
		summary: tracing.NewSummaryTracer(),
		monitor: monitoring.NewMonitor(),
	}

	model, err := inspection.New(b.modelConfig(), src)
	if err != nil {
		return nil, fmt.Errorf("build simulation: %w", err)
	}

	s.model = model
	s.engine = sim.NewSerialEngine()

	s.driver, err = inspection.NewDriver("Driver", s.engine, model, b.periods)
	if err != nil {
		return nil, fmt.Errorf("build simulation: %w", err)
	}

	s.monitor.RegisterEngine(s.engine)
	model.AcceptHook(s.summary)

	if b.logger != nil {
		model.AcceptHook(tracing.NewPeriodLogger(b.logger))
	}

	if b.eventLogger != nil {
		s.engine.AcceptHook(sim.NewEventLogger(b.eventLogger))
	}

	if b.progressBar {
		s.progress = s.monitor.CreateProgressBar(
			"Periods", uint64(b.periods))
		model.AcceptHook(monitoring.NewPeriodProgress(s.progress))
	}

	if b.recording {
		err = b.attachRecorder(s)
		if err != nil {
			return nil, fmt.Errorf("build simulation: %w", err)
		}
	}

	s.engine.RegisterSimulationEndHandler(s)

	return s, nil
}

func (b Builder) attachRecorder(s *Simulation) error {
	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "hygienesim_" + s.id
	}

	recorder, err := datarecording.New(outputPath)
	if err != nil {
		return err
	}

	s.recorder = recorder
	s.model.AcceptHook(tracing.NewPeriodRecorder(recorder))

	s.execRecorder = datarecording.NewExecRecorder(recorder)
	s.execRecorder.Start()
	s.execRecorder.AddProperty("Simulation ID", s.id)
	s.execRecorder.AddProperty("Seed", b.seedProperty(s.seed))
	s.execRecorder.AddProperty("Height", strconv.Itoa(b.height))
	s.execRecorder.AddProperty("Width", strconv.Itoa(b.width))
	s.execRecorder.AddProperty("Density",
		strconv.FormatFloat(b.density, 'g', -1, 64))
	s.execRecorder.AddProperty("Periods", strconv.Itoa(b.periods))
	s.execRecorder.AddProperty("Population",
		strconv.Itoa(s.model.PopulationSize()))

	return nil
}

func (b Builder) seedProperty(seed int64) string {
	if b.src != nil {
		return "injected"
	}

	return strconv.FormatInt(seed, 10)
}
