package inspection

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/hygienesim/establishment"
	"github.com/sarchlab/hygienesim/rng"
	"github.com/sarchlab/hygienesim/sim"
)

var _ = Describe("Model", func() {
	DescribeTable("rejecting invalid configurations",
		func(c Config) {
			m, err := New(c, rng.New(1))

			Expect(m).To(BeNil())
			Expect(err).To(MatchError(ErrInvalidConfiguration))
		},
		Entry("zero height", Config{Height: 0, Width: 5, Density: 0.5}),
		Entry("negative width", Config{Height: 5, Width: -1, Density: 0.5}),
		Entry("negative density", Config{Height: 5, Width: 5, Density: -0.1}),
		Entry("density above one", Config{Height: 5, Width: 5, Density: 1.1}),
		Entry("NaN density", Config{Height: 5, Width: 5, Density: math.NaN()}),
	)

	It("should refuse records of periods not yet run", func() {
		m, err := New(Config{Height: 2, Width: 2, Density: 0}, rng.New(1))
		Expect(err).NotTo(HaveOccurred())

		Expect(func() { m.Record(0) }).
			To(PanicWith(ContainSubstring("period 0 is out of range [0, 0)")))

		m.Step()

		Expect(m.Record(0)).To(Equal(Record{Period: 0}))
		Expect(func() { m.Record(-1) }).To(Panic())
		Expect(func() { m.Record(1) }).To(Panic())
	})

	It("should reject a nil random source", func() {
		_, err := New(Config{Height: 1, Width: 1, Density: 1}, nil)

		Expect(err).To(MatchError(ErrInvalidConfiguration))
	})

	It("should populate one site per draw below the density", func() {
		src := rng.NewScripted(0.1, 0.6, 0.49, 0.5)

		m, err := New(Config{Height: 2, Width: 2, Density: 0.5}, src)

		Expect(err).NotTo(HaveOccurred())
		Expect(src.Consumed()).To(Equal(4))
		Expect(m.PopulationSize()).To(Equal(2))

		_, found := m.Establishment(establishment.Position{X: 0, Y: 0})
		Expect(found).To(BeTrue())
		_, found = m.Establishment(establishment.Position{X: 0, Y: 1})
		Expect(found).To(BeFalse())
		_, found = m.Establishment(establishment.Position{X: 1, Y: 0})
		Expect(found).To(BeTrue())
		_, found = m.Establishment(establishment.Position{X: 1, Y: 1})
		Expect(found).To(BeFalse())

		for _, e := range m.Establishments() {
			Expect(e.Rating()).To(Equal(establishment.Closed))
		}
	})

	Context("with a single site at full density", func() {
		var (
			src *rng.Scripted
			m   *Model
		)

		BeforeEach(func() {
			var err error
			src = rng.NewScripted(0.0)
			m, err = New(Config{Height: 1, Width: 1, Density: 1}, src)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should start with one closed establishment and no records", func() {
			Expect(m.PopulationSize()).To(Equal(1))
			Expect(m.Establishments()[0].Rating()).To(Equal(establishment.Closed))
			Expect(m.Len()).To(BeZero())
		})

		It("should open the establishment in the first period", func() {
			src.Append(0.3, 0.5)

			m.Step()

			e := m.Establishments()[0]
			Expect(e.Rating()).To(Equal(establishment.Unrated))
			Expect(e.WeeksToInspection()).To(BeZero())
			Expect(e.Savings()).NotTo(Equal(establishment.StartUpSavings))
			Expect(m.TimeSeries()).To(Equal([]Record{{Period: 0, Good: 1, Bad: 0}}))
		})

		It("should count a bad establishment as bad", func() {
			src.Append(0.9, 0.5)

			m.Step()

			Expect(m.Record(0)).To(Equal(Record{Period: 0, Good: 0, Bad: 1}))
			Expect(m.Count(establishment.Bad)).To(Equal(1))
			Expect(m.Count(establishment.Good)).To(BeZero())
		})

		It("should exclude a closed establishment from both counts", func() {
			src.Append(0.9, 0.0, 0.5)

			m.Step()

			Expect(m.Record(0)).To(Equal(Record{Period: 0}))
			Expect(m.CountClosed()).To(Equal(1))
		})
	})

	It("should record empty periods at zero density", func() {
		m, err := New(Config{Height: 10, Width: 10, Density: 0}, rng.New(1))
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 50; i++ {
			m.Step()
		}

		Expect(m.PopulationSize()).To(BeZero())
		Expect(m.Len()).To(Equal(50))
		for i, r := range m.TimeSeries() {
			Expect(r).To(Equal(Record{Period: i}))
		}
	})

	It("should reshuffle the visiting order in every period", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		src := NewMockSource(mockCtrl)
		src.EXPECT().Float64().Return(0.5).AnyTimes()

		m, err := New(Config{Height: 2, Width: 2, Density: 1}, src)
		Expect(err).NotTo(HaveOccurred())

		src.EXPECT().Shuffle(4, gomock.Any()).
			Do(func(_ int, swap func(i, j int)) { swap(0, 3) }).
			Times(3)

		m.Step()
		m.Step()
		m.Step()

		Expect(m.order).To(ConsistOf(0, 1, 2, 3))
		Expect(m.order).To(Equal([]int{3, 1, 2, 0}))
	})

	It("should invoke period end hooks with the record", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		m, err := New(Config{Height: 3, Width: 3, Density: 0.5}, rng.New(3))
		Expect(err).NotTo(HaveOccurred())

		hook := NewMockHook(mockCtrl)
		m.AcceptHook(hook)

		periods := []int{}
		hook.EXPECT().Func(gomock.Any()).
			Do(func(ctx sim.HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosPeriodEnd))
				Expect(ctx.Detail).To(BeIdenticalTo(m))

				r := ctx.Item.(Record)
				Expect(r).To(Equal(m.Record(r.Period)))
				periods = append(periods, r.Period)
			}).
			Times(3)

		m.Step()
		m.Step()
		m.Step()

		Expect(periods).To(Equal([]int{0, 1, 2}))
	})

	Context("over a long seeded run", func() {
		var (
			m     *Model
			steps = 300
		)

		BeforeEach(func() {
			var err error
			m, err = New(Config{Height: 20, Width: 20, Density: 0.3}, rng.New(2016))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep the population and the counters consistent", func() {
			population := m.PopulationSize()
			Expect(population).To(BeNumerically(">", 0))

			for i := 0; i < steps; i++ {
				m.Step()

				r := m.Record(i)
				closed := m.CountClosed()

				Expect(m.PopulationSize()).To(Equal(population))
				Expect(r.Period).To(Equal(i))
				Expect(r.Good).To(Equal(m.Count(establishment.Good)))
				Expect(r.Bad).To(Equal(m.Count(establishment.Bad)))
				Expect(r.Open() + closed).To(Equal(population))

				for _, e := range m.Establishments() {
					if !e.IsOpen() {
						Expect(e.Savings()).To(BeZero())
						Expect(e.WeeksToInspection()).To(BeZero())
					}
				}
			}

			Expect(m.TimeSeries()).To(HaveLen(steps))
			Expect(m.Running()).To(BeTrue())
		})

		It("should not let callers alter the history", func() {
			m.Step()

			series := m.TimeSeries()
			series[0].Good = -1

			Expect(m.Record(0).Good).NotTo(Equal(-1))
		})

		It("should reproduce the trajectory for the same seed", func() {
			other, err := New(m.Config(), rng.New(2016))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < steps; i++ {
				m.Step()
				other.Step()

				Expect(other.Snapshots()).To(Equal(m.Snapshots()))
			}

			Expect(other.TimeSeries()).To(Equal(m.TimeSeries()))
		})
	})
})
