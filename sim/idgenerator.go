package sim

import (
	"strconv"
	"sync/atomic"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	Generate() string
}

// Sequential IDs keep the events of seeded runs reproducible.
var idGenerator IDGenerator = &sequentialIDGenerator{}

// GetIDGenerator returns the process-wide ID generator.
func GetIDGenerator() IDGenerator {
	return idGenerator
}

type sequentialIDGenerator struct {
	nextID atomic.Uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(g.nextID.Add(1), 10)
}
