package sim

// VTimeInSec is a point on the simulated timeline, measured in seconds.
type VTimeInSec float64

// An Event is something that happens at a point on the simulated timeline.
type Event interface {
	// Time returns when the event happens.
	Time() VTimeInSec

	// Handler returns who processes the event.
	Handler() Handler
}

// EventBase carries the fields shared by all the events.
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// Time returns the time that the event is going to happen.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// A Handler processes events.
//
// One event always belongs to one Handler, which means the event can only be
// scheduled by that handler and can only directly modify that handler.
type Handler interface {
	Handle(e Event) error
}
