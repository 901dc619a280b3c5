package sim

import (
	"container/heap"
	"fmt"
	"log"
	"reflect"
	"sync"
)

// A SerialEngine handles events one at a time in time order, on the
// goroutine that calls Run.
type SerialEngine struct {
	HookableBase

	// stepLock is held while an event is handled. Pause acquires it and never
	// releases it.
	stepLock  sync.Mutex
	pauseOnce sync.Once

	now         VTimeInSec
	queue       eventQueue
	endHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{}
}

// Schedule queues an event. Events cannot be scheduled before the current
// time.
func (e *SerialEngine) Schedule(evt Event) {
	if evt.Time() < e.now {
		log.Panicf("%s scheduled at %.10f, before the current time %.10f",
			reflect.TypeOf(evt), evt.Time(), e.now)
	}

	heap.Push(&e.queue, evt)
}

// Run handles the queued events until none is left. It stops at the first
// event whose handler returns an error.
func (e *SerialEngine) Run() error {
	for e.queue.Len() > 0 {
		err := e.handleNext()
		if err != nil {
			return err
		}
	}

	return nil
}

func (e *SerialEngine) handleNext() error {
	e.stepLock.Lock()
	defer e.stepLock.Unlock()

	evt := heap.Pop(&e.queue).(Event)
	e.now = evt.Time()

	ctx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
	e.InvokeHook(ctx)

	err := evt.Handler().Handle(evt)
	if err != nil {
		return fmt.Errorf("handling %s @ %.10f: %w",
			reflect.TypeOf(evt), evt.Time(), err)
	}

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)

	return nil
}

// Pause stops the engine after the event being handled. It is safe to call
// from another goroutine and more than once.
func (e *SerialEngine) Pause() {
	e.pauseOnce.Do(e.stepLock.Lock)
}

// CurrentTime returns the time of the event being handled, or of the last
// handled event.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	return e.now
}

// RegisterSimulationEndHandler registers a handler to be called by Finished.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.endHandlers = append(e.endHandlers, handler)
}

// Finished calls all the registered SimulationEndHandlers.
func (e *SerialEngine) Finished() {
	for _, h := range e.endHandlers {
		h.Handle(e.now)
	}
}
