package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecInfoTable is the name of the table that holds run metadata.
const ExecInfoTable = "exec_info"

const timeLayout = "2006-01-02 15:04:05.000000000"

// ExecInfo is one property of a run.
type ExecInfo struct {
	Property string
	Value    string
}

// An ExecRecorder records the metadata of one program execution: when it
// started and ended, how it was invoked, and any property added by the
// caller, such as the parameters of the run.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates the metadata table on the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return &ExecRecorder{
		recorder: recorder,
	}
}

// Start notes the start time, the command line and the working directory.
func (e *ExecRecorder) Start() {
	e.AddProperty("Start Time", time.Now().Format(timeLayout))
	e.AddProperty("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err == nil {
		e.AddProperty("Working Directory", cwd)
	}
}

// AddProperty adds a property to be written at End.
func (e *ExecRecorder) AddProperty(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}

// End writes all the properties along with the end time.
func (e *ExecRecorder) End() {
	e.AddProperty("End Time", time.Now().Format(timeLayout))

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTable, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
