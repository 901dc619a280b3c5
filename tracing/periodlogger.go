package tracing

import (
	"log"

	"github.com/sarchlab/hygienesim/sim"
)

// PeriodLogger is a hook that prints one line per period.
type PeriodLogger struct {
	sim.LogHookBase
}

// NewPeriodLogger returns a new PeriodLogger which writes into the logger.
func NewPeriodLogger(logger *log.Logger) *PeriodLogger {
	h := new(PeriodLogger)
	h.Logger = logger

	return h
}

// Func writes the record of the period into the logger.
func (h *PeriodLogger) Func(ctx sim.HookCtx) {
	record, ok := periodRecord(ctx)
	if !ok {
		return
	}

	h.Printf("period %d: good %d, bad %d, closed %d",
		record.Period, record.Good, record.Bad, closedCount(ctx, record))
}
