package monitoring

import (
	"github.com/sarchlab/hygienesim/inspection"
	"github.com/sarchlab/hygienesim/sim"
)

// PeriodProgress is a hook that advances a progress bar by one at the end of
// every period.
type PeriodProgress struct {
	bar *ProgressBar
}

// NewPeriodProgress creates a hook that drives the bar.
func NewPeriodProgress(bar *ProgressBar) *PeriodProgress {
	return &PeriodProgress{bar: bar}
}

// Func counts a finished period.
func (p *PeriodProgress) Func(ctx sim.HookCtx) {
	if ctx.Pos != inspection.HookPosPeriodEnd {
		return
	}

	p.bar.IncrementFinished(1)
}
