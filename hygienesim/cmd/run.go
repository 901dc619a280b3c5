package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/hygienesim/config"
	"github.com/sarchlab/hygienesim/establishment"
	"github.com/sarchlab/hygienesim/inspection"
	"github.com/sarchlab/hygienesim/simulation"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the model and print the weekly counts.",
		Long: "`run` builds a run from the defaults, the --config file, the " +
			".env file, the HYGIENESIM_* variables and the flags, in that " +
			"order, then prints the number of good and bad open restaurants " +
			"of every week.",
		Args: cobra.NoArgs,
		RunE: runSimulation,
	}

	f := runCmd.Flags()
	f.String("config", "", "YAML file with the run parameters")
	f.Int("height", 0, "number of rows of the grid")
	f.Int("width", 0, "number of columns of the grid")
	f.Float64("density", 0, "probability that a site holds a restaurant")
	f.Int64("seed", 0, "seed of the random source, 0 picks one")
	f.Int("periods", 0, "number of weeks to run")
	f.String("output", "", "name of the recording database")
	f.Bool("no-record", false, "do not record the series")
	f.BoolP("verbose", "v", false, "log every week to stderr")
	f.Bool("trace-events", false, "log every engine event to stderr")
	f.String("dump", "", "print the restaurant at x,y after the run")

	return runCmd
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dumpSpec, _ := cmd.Flags().GetString("dump")

	var dumpPos *establishment.Position
	if dumpSpec != "" {
		pos, err := parsePosition(dumpSpec)
		if err != nil {
			return err
		}

		dumpPos = &pos
	}

	builder := simulation.MakeBuilderFromConfig(c)
	if c.Verbose {
		builder = builder.WithLogger(log.New(cmd.ErrOrStderr(), "", 0))
	}

	traceEvents, _ := cmd.Flags().GetBool("trace-events")
	if traceEvents {
		builder = builder.WithEventLogger(log.New(cmd.ErrOrStderr(), "", 0))
	}

	s, err := builder.WithProgressBar().Build()
	if err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)

	go func() {
		if interruptOn(sigs, cmd.ErrOrStderr(), s) {
			atexit.Exit(1)
		}
	}()

	runErr := s.Run()

	signal.Stop(sigs)
	close(sigs)

	termErr := s.Terminate()

	if runErr != nil {
		return runErr
	}

	if termErr != nil {
		return termErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Simulation %s, seed %d, %d restaurants\n",
		s.ID(), s.Seed(), s.Model().PopulationSize())

	printSeries(out, s)
	printSummary(out, s)

	if dumpPos != nil {
		err = dumpEstablishment(out, s, *dumpPos)
		if err != nil {
			return err
		}
	}

	usage, err := s.Monitor().ResourceUsage()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Resource usage unavailable: %v\n", err)
		return nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "CPU %.1f%%, memory %s\n",
		usage.CPUPercent, humanize.Bytes(usage.MemorySize))

	return nil
}

// interruptOn waits for a signal and interrupts the run. It reports false if
// the channel is closed first.
func interruptOn(
	sigs <-chan os.Signal,
	w io.Writer,
	s *simulation.Simulation,
) bool {
	sig, ok := <-sigs
	if !ok {
		return false
	}

	err := s.Interrupt()
	if err != nil {
		fmt.Fprintf(w, "Error closing the recording: %v\n", err)
	}

	weeks := float64(s.Monitor().Now()) / inspection.SecondsPerWeek
	fmt.Fprintf(w, "%s: interrupted at week %.0f", sig, weeks)

	bars := s.Monitor().ProgressBars()
	if len(bars) > 0 {
		fmt.Fprintf(w, ", %.0f%% done", 100*bars[0].Fraction())
	}

	fmt.Fprintln(w)

	return true
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	c, err := config.Load(path)
	if err != nil {
		return c, err
	}

	applyFlags(cmd, &c)

	return c, c.Validate()
}

// applyFlags overrides c with the flags that were set on the command line.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()

	if f.Changed("height") {
		c.Height, _ = f.GetInt("height")
	}

	if f.Changed("width") {
		c.Width, _ = f.GetInt("width")
	}

	if f.Changed("density") {
		c.Density, _ = f.GetFloat64("density")
	}

	if f.Changed("seed") {
		c.Seed, _ = f.GetInt64("seed")
	}

	if f.Changed("periods") {
		c.Periods, _ = f.GetInt("periods")
	}

	if f.Changed("output") {
		c.Output, _ = f.GetString("output")
	}

	if f.Changed("no-record") {
		c.NoRecord, _ = f.GetBool("no-record")
	}

	if f.Changed("verbose") {
		c.Verbose, _ = f.GetBool("verbose")
	}
}

func parsePosition(s string) (establishment.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return establishment.Position{},
			fmt.Errorf("position %q is not in the form x,y", s)
	}

	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return establishment.Position{},
			fmt.Errorf("position %q: %w", s, err)
	}

	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return establishment.Position{},
			fmt.Errorf("position %q: %w", s, err)
	}

	return establishment.Position{X: x, Y: y}, nil
}

func printSeries(w io.Writer, s *simulation.Simulation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tGood\tBad\t")

	for _, r := range s.Model().TimeSeries() {
		fmt.Fprintf(tw, "%d\t%d\t%d\t\n", r.Period, r.Good, r.Bad)
	}

	tw.Flush()
}

func printSummary(w io.Writer, s *simulation.Simulation) {
	summary := s.Summary()

	fmt.Fprintf(w,
		"Mean good %.2f, mean bad %.2f, open between %d and %d\n",
		summary.MeanGood, summary.MeanBad, summary.LowOpen, summary.PeakOpen)
}

func dumpEstablishment(
	w io.Writer,
	s *simulation.Simulation,
	pos establishment.Position,
) error {
	e, ok := s.Model().Establishment(pos)
	if !ok {
		return fmt.Errorf("no restaurant at %s", pos)
	}

	state := e.State()

	err := s.Monitor().DumpEntity(w, &state)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)

	return nil
}
