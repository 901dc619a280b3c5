package tracing

import (
	"sync"

	"github.com/sarchlab/hygienesim/inspection"
	"github.com/sarchlab/hygienesim/sim"
)

// Summary aggregates the records of a run.
type Summary struct {
	Periods  int
	MeanGood float64
	MeanBad  float64
	PeakOpen int
	LowOpen  int
	Last     inspection.Record
}

// SummaryTracer is a hook that keeps running totals of the period records.
type SummaryTracer struct {
	lock sync.Mutex

	periods  int
	sumGood  int
	sumBad   int
	peakOpen int
	lowOpen  int
	last     inspection.Record
}

// NewSummaryTracer creates a new SummaryTracer.
func NewSummaryTracer() *SummaryTracer {
	return &SummaryTracer{}
}

// Func adds the record of a period to the totals.
func (t *SummaryTracer) Func(ctx sim.HookCtx) {
	record, ok := periodRecord(ctx)
	if !ok {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	open := record.Open()
	if t.periods == 0 || open > t.peakOpen {
		t.peakOpen = open
	}

	if t.periods == 0 || open < t.lowOpen {
		t.lowOpen = open
	}

	t.periods++
	t.sumGood += record.Good
	t.sumBad += record.Bad
	t.last = record
}

// Summary returns the totals collected so far.
func (t *SummaryTracer) Summary() Summary {
	t.lock.Lock()
	defer t.lock.Unlock()

	s := Summary{
		Periods:  t.periods,
		PeakOpen: t.peakOpen,
		LowOpen:  t.lowOpen,
		Last:     t.last,
	}

	if t.periods > 0 {
		s.MeanGood = float64(t.sumGood) / float64(t.periods)
		s.MeanBad = float64(t.sumBad) / float64(t.periods)
	}

	return s
}
