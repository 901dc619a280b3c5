// Package monitoring tracks the progress and resource usage of a run.
package monitoring

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/hygienesim/sim"
)

// Monitor keeps the progress bars of a run and reports on the process.
type Monitor struct {
	engine sim.Engine

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// RegisterEngine registers the engine that is used in the run.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// Now returns the current time of the registered engine, or 0 if there is
// none.
func (m *Monitor) Now() sim.VTimeInSec {
	if m.engine == nil {
		return 0
	}

	return m.engine.CurrentTime()
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the monitor.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// ProgressBars returns the bars that are not completed.
func (m *Monitor) ProgressBars() []*ProgressBar {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	out := make([]*ProgressBar, len(m.progressBars))
	copy(out, m.progressBars)

	return out
}

// ResourceUsage is the CPU and memory usage of the process.
type ResourceUsage struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

// ResourceUsage samples the usage of the current process.
func (m *Monitor) ResourceUsage() (ResourceUsage, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ResourceUsage{}, fmt.Errorf("finding process: %w", err)
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		return ResourceUsage{}, fmt.Errorf("reading cpu usage: %w", err)
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		return ResourceUsage{}, fmt.Errorf("reading memory usage: %w", err)
	}

	return ResourceUsage{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	}, nil
}

// DumpDepth is how many levels of nested structs DumpEntity expands.
const DumpDepth = 2

// DumpEntity writes the fields of any value as JSON, expanding nested
// structs up to DumpDepth levels.
func (m *Monitor) DumpEntity(w io.Writer, entity any) error {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(entity)
	serializer.SetMaxDepth(DumpDepth)

	return serializer.Serialize(w)
}
