package sim

// TickEvent asks a Ticker to update its state.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a TickEvent for the handler at the given time.
func MakeTickEvent(handler Handler, time VTimeInSec) TickEvent {
	return TickEvent{EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    time,
		handler: handler,
	}}
}

// A Ticker is an object that updates states with ticks. Tick returns whether
// it wants to be ticked again.
type Ticker interface {
	Tick() bool
}

// TickScheduler keeps at most one pending tick of a handler on an engine.
type TickScheduler struct {
	handler Handler
	engine  Engine
	freq    Freq
	pending VTimeInSec
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
) *TickScheduler {
	return &TickScheduler{
		handler: handler,
		engine:  engine,
		freq:    freq,
		pending: -1,
	}
}

// TickLater schedules a tick on the next boundary after the current time,
// unless a tick is already pending by then.
func (t *TickScheduler) TickLater() {
	next := t.freq.NextTick(t.engine.CurrentTime())
	if t.pending >= next {
		return
	}

	t.pending = next
	t.engine.Schedule(MakeTickEvent(t.handler, next))
}

// TickingComponent is a component that is driven by ticks. A programmer only
// needs to provide the Ticker.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// NewTickingComponent creates a new ticking component.
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := &TickingComponent{
		ComponentBase: NewComponentBase(name),
		ticker:        ticker,
	}
	tc.TickScheduler = NewTickScheduler(tc, engine, freq)

	return tc
}

// Handle ticks the Ticker and schedules the next tick if it asks for one.
func (c *TickingComponent) Handle(_ Event) error {
	if c.ticker.Tick() {
		c.TickLater()
	}

	return nil
}
