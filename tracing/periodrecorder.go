// Package tracing provides hooks that observe a model at the end of every
// period.
package tracing

import (
	"github.com/sarchlab/hygienesim/datarecording"
	"github.com/sarchlab/hygienesim/inspection"
	"github.com/sarchlab/hygienesim/sim"
)

// SeriesTable is the table the PeriodRecorder writes into.
const SeriesTable = "hygiene_series"

// SeriesEntry is one row of the recorded series.
type SeriesEntry struct {
	Period int
	Good   int
	Bad    int
	Closed int
}

// A PeriodRecorder is a hook that stores the record of every period into a
// DataRecorder.
type PeriodRecorder struct {
	backend datarecording.DataRecorder
}

// NewPeriodRecorder creates the series table on the backend.
func NewPeriodRecorder(backend datarecording.DataRecorder) *PeriodRecorder {
	backend.CreateTable(SeriesTable, SeriesEntry{})

	return &PeriodRecorder{backend: backend}
}

// Func records one row at the end of a period.
func (r *PeriodRecorder) Func(ctx sim.HookCtx) {
	record, ok := periodRecord(ctx)
	if !ok {
		return
	}

	r.backend.InsertData(SeriesTable, SeriesEntry{
		Period: record.Period,
		Good:   record.Good,
		Bad:    record.Bad,
		Closed: closedCount(ctx, record),
	})
}

func periodRecord(ctx sim.HookCtx) (inspection.Record, bool) {
	if ctx.Pos != inspection.HookPosPeriodEnd {
		return inspection.Record{}, false
	}

	record, ok := ctx.Item.(inspection.Record)

	return record, ok
}

// closedCount derives the closed establishments from the population size.
// It is zero when the hook is not given the model.
func closedCount(ctx sim.HookCtx, record inspection.Record) int {
	model, ok := ctx.Detail.(*inspection.Model)
	if !ok {
		return 0
	}

	return model.PopulationSize() - record.Open()
}
