package simulation

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hygienesim/config"
	"github.com/sarchlab/hygienesim/datarecording"
	"github.com/sarchlab/hygienesim/inspection"
	"github.com/sarchlab/hygienesim/rng"
	"github.com/sarchlab/hygienesim/tracing"
)

var _ = Describe("Builder", func() {
	It("should carry a configuration", func() {
		c := config.Default()
		c.Height = 3
		c.Width = 4
		c.Periods = 7
		c.NoRecord = true

		b := MakeBuilderFromConfig(c)

		Expect(b.modelConfig()).To(Equal(inspection.Config{
			Height: 3, Width: 4, Density: 0.1,
		}))
		Expect(b.periods).To(Equal(7))
		Expect(b.recording).To(BeFalse())
	})

	It("should reject an invalid grid", func() {
		_, err := MakeBuilder().
			WithoutRecording().
			WithGrid(0, 5).
			Build()

		Expect(err).To(MatchError(inspection.ErrInvalidConfiguration))
	})

	It("should reject a run without periods", func() {
		_, err := MakeBuilder().
			WithoutRecording().
			WithPeriods(0).
			Build()

		Expect(err).To(MatchError(inspection.ErrInvalidConfiguration))
	})

	It("should pick a seed when none is given", func() {
		s, err := MakeBuilder().WithoutRecording().WithSeed(0).Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Seed()).NotTo(BeZero())
		Expect(s.ID()).NotTo(BeEmpty())
	})

	It("should use the given source", func() {
		src := rng.NewScripted()

		s, err := MakeBuilder().
			WithoutRecording().
			WithDensity(0).
			WithSource(src).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Model().PopulationSize()).To(Equal(0))
		Expect(src.Consumed()).To(Equal(0))
	})

	It("should refuse to overwrite a recording", func() {
		path := filepath.Join(GinkgoT().TempDir(), "taken")
		Expect(os.WriteFile(path+datarecording.FileExtension, nil, 0o600)).
			To(Succeed())

		_, err := MakeBuilder().WithOutputFileName(path).Build()

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Simulation", func() {
	It("should run all the periods", func() {
		s, err := MakeBuilder().
			WithoutRecording().
			WithSeed(3).
			WithGrid(6, 6).
			WithDensity(0.5).
			WithPeriods(12).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Run()).To(Succeed())

		Expect(s.Model().Len()).To(Equal(12))
		Expect(s.Driver().Done()).To(BeTrue())
		Expect(float64(s.Engine().CurrentTime())).
			To(BeNumerically("~", 12*inspection.SecondsPerWeek, 1))

		summary := s.Summary()
		Expect(summary.Periods).To(Equal(12))
		Expect(summary.Last).To(Equal(s.Model().Record(11)))
		Expect(summary.PeakOpen).
			To(BeNumerically("<=", s.Model().PopulationSize()))
	})

	It("should be reproducible from a seed", func() {
		build := func() *Simulation {
			s, err := MakeBuilder().
				WithoutRecording().
				WithSeed(42).
				WithGrid(8, 8).
				WithDensity(0.4).
				WithPeriods(30).
				Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Run()).To(Succeed())

			return s
		}

		a := build()
		b := build()

		Expect(a.Model().TimeSeries()).To(Equal(b.Model().TimeSeries()))
		Expect(a.Model().Snapshots()).To(Equal(b.Model().Snapshots()))
	})

	It("should log every period", func() {
		buf := new(bytes.Buffer)

		s, err := MakeBuilder().
			WithoutRecording().
			WithDensity(0).
			WithPeriods(5).
			WithLogger(log.New(buf, "", 0)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Run()).To(Succeed())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(5))
		Expect(lines[0]).To(Equal("period 0: good 0, bad 0, closed 0"))
	})

	It("should log every event", func() {
		buf := new(bytes.Buffer)

		s, err := MakeBuilder().
			WithoutRecording().
			WithDensity(0).
			WithPeriods(3).
			WithEventLogger(log.New(buf, "", 0)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Run()).To(Succeed())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(3))
		Expect(lines[0]).To(HaveSuffix("sim.TickEvent -> Driver"))
	})

	It("should complete the progress bar", func() {
		s, err := MakeBuilder().
			WithoutRecording().
			WithDensity(0).
			WithPeriods(4).
			WithProgressBar().
			Build()
		Expect(err).NotTo(HaveOccurred())

		bars := s.Monitor().ProgressBars()
		Expect(bars).To(HaveLen(1))

		Expect(s.Run()).To(Succeed())

		Expect(bars[0].Finished).To(Equal(uint64(4)))
		Expect(s.Monitor().ProgressBars()).To(BeEmpty())
	})

	It("should record the series and the run metadata", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run")

		s, err := MakeBuilder().
			WithOutputFileName(path).
			WithSeed(7).
			WithGrid(5, 5).
			WithDensity(0.6).
			WithPeriods(10).
			Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.DataRecorder()).NotTo(BeNil())

		Expect(s.Run()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())

		reader, err := datarecording.NewReader(path + datarecording.FileExtension)
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		reader.MapTable(tracing.SeriesTable, tracing.SeriesEntry{})
		reader.MapTable(datarecording.ExecInfoTable, datarecording.ExecInfo{})

		rows, total, err := reader.Query(context.Background(),
			tracing.SeriesTable, datarecording.QueryParams{OrderBy: "Period"})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(10))

		for i, row := range rows {
			entry := row.(*tracing.SeriesEntry)
			record := s.Model().Record(i)

			Expect(entry.Period).To(Equal(i))
			Expect(entry.Good).To(Equal(record.Good))
			Expect(entry.Bad).To(Equal(record.Bad))
			Expect(entry.Good + entry.Bad + entry.Closed).
				To(Equal(s.Model().PopulationSize()))
		}

		info, _, err := reader.Query(context.Background(),
			datarecording.ExecInfoTable, datarecording.QueryParams{
				Where: "Property = ?",
				Args:  []any{"Seed"},
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(info).To(HaveLen(1))
		Expect(info[0].(*datarecording.ExecInfo).Value).To(Equal("7"))
	})

	readExecInfo := func(path, property string) []any {
		reader, err := datarecording.NewReader(path + datarecording.FileExtension)
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		reader.MapTable(datarecording.ExecInfoTable, datarecording.ExecInfo{})

		info, _, err := reader.Query(context.Background(),
			datarecording.ExecInfoTable, datarecording.QueryParams{
				Where: "Property = ?",
				Args:  []any{property},
			})
		Expect(err).NotTo(HaveOccurred())

		return info
	}

	It("should mark an injected source in the recording", func() {
		path := filepath.Join(GinkgoT().TempDir(), "injected")

		s, err := MakeBuilder().
			WithOutputFileName(path).
			WithSeed(5).
			WithDensity(0).
			WithPeriods(2).
			WithSource(rng.NewScripted()).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Run()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())

		info := readExecInfo(path, "Seed")
		Expect(info).To(HaveLen(1))
		Expect(info[0].(*datarecording.ExecInfo).Value).To(Equal("injected"))
	})

	It("should record where an interrupted run stopped", func() {
		path := filepath.Join(GinkgoT().TempDir(), "interrupted")

		s, err := MakeBuilder().
			WithOutputFileName(path).
			WithDensity(0).
			WithPeriods(4).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Interrupt()).To(Succeed())
		Expect(s.Interrupt()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())
		Expect(s.Run()).NotTo(Succeed())

		info := readExecInfo(path, "Interrupted At Period")
		Expect(info).To(HaveLen(1))
		Expect(info[0].(*datarecording.ExecInfo).Value).To(Equal("0"))
	})

	It("should not run after termination", func() {
		s, err := MakeBuilder().WithoutRecording().WithDensity(0).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Terminate()).To(Succeed())

		Expect(s.Run()).NotTo(Succeed())
	})
})
