package sim

import (
	"log"
	"math"
)

// Freq is a tick rate, in ticks per simulated second.
type Freq float64

// NextTick returns the first tick boundary after now. A time within a tenth
// of a tick of a boundary counts as on it.
//
//	           Input
//	           [          )
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) NextTick(now VTimeInSec) VTimeInSec {
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}

	count := math.Floor(math.Round(float64(now)*10*float64(f)) / 10)

	return VTimeInSec((count + 1) / float64(f))
}
