package sim

import (
	"container/heap"
	"log"
	"math"
)

// ResetHook is invoked, in registration order, whenever the Engine is reset.
// Components that own derived state (timer tables, trace streams, interface
// counters) register one of these during construction so that Reset can
// restore the whole simulation to its post-construction state without the
// Engine knowing anything about them.
type ResetHook func()

// Engine is the discrete-event scheduler: a priority queue of time-stamped
// callbacks advancing a monotonic simulation clock. It is the substrate
// every other component in the simulator runs on top of.
//
// Events are plain callbacks rather than handler-bound values, Schedule
// returns a Handle that Cancel can later retire, and Reset gives every
// dependent component a hook to rebuild its state.
type Engine struct {
	HookableBase

	now        VTimeInSec
	queue      eventHeap
	index      map[Handle]*scheduledEvent
	nextHandle Handle
	nextSeq    uint64
	stopped    bool

	resetHooks []ResetHook
}

// NewEngine creates an Engine with an empty queue at time 0.
func NewEngine() *Engine {
	e := &Engine{
		index: make(map[Handle]*scheduledEvent),
	}
	heap.Init(&e.queue)
	return e
}

// Now returns the current simulation time: the time of the event most
// recently dispatched by Run.
func (e *Engine) Now() VTimeInSec {
	return e.now
}

// Schedule inserts cb to run at Now()+delay and returns a Handle that Cancel
// can use to retire it before it fires. delay must not be negative; a
// negative delay is a precondition violation and is fatal.
func (e *Engine) Schedule(delay VTimeInSec, cb Callback) Handle {
	if delay < 0 {
		log.Panicf("sim: scheduling with negative delay %.10f", delay)
	}

	e.nextHandle++
	h := e.nextHandle

	se := &scheduledEvent{
		handle: h,
		time:   e.now + delay,
		seq:    e.nextSeq,
		cb:     cb,
	}
	e.nextSeq++

	heap.Push(&e.queue, se)
	e.index[h] = se

	return h
}

// Cancel removes the event referred to by h if it is still pending.
// Cancelling an event that already fired, was already cancelled, or was
// never scheduled (including the zero Handle) is a no-op and returns false.
// Cancel is safe to call from within the firing callback of a different
// event; cancelling the event currently being handled is also a no-op,
// since it has already been removed from the index before its callback
// runs.
func (e *Engine) Cancel(h Handle) bool {
	se, ok := e.index[h]
	if !ok || se.cancelled {
		return false
	}

	se.cancelled = true
	delete(e.index, h)

	return true
}

// Run pops the least time-stamped pending event, advances Now to its time,
// and invokes its callback, repeating until the queue is empty, Stop is
// called, or Now would advance past until. Passing no until runs to
// exhaustion.
func (e *Engine) Run(until ...VTimeInSec) error {
	limit := VTimeInSec(math.Inf(1))
	if len(until) > 0 {
		limit = until[0]
	}

	e.stopped = false

	for e.queue.Len() > 0 {
		if e.stopped {
			break
		}

		se := heap.Pop(&e.queue).(*scheduledEvent)
		if se.cancelled {
			continue
		}

		if se.time > limit {
			heap.Push(&e.queue, se)
			break
		}

		e.now = se.time
		delete(e.index, se.handle)

		hookCtx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: se}
		e.InvokeHook(hookCtx)

		se.cb(e.now)

		hookCtx.Pos = HookPosAfterEvent
		e.InvokeHook(hookCtx)
	}

	return nil
}

// Stop halts Run after the event currently being handled, if any, finishes.
// A later call to Run clears the stop and continues with the events still
// queued.
func (e *Engine) Stop() {
	e.stopped = true
}

// Pending reports how many events are still queued, primary and cancelled
// entries included; cancelled entries are lazily dropped as Run walks past
// them.
func (e *Engine) Pending() int {
	return e.queue.Len()
}

// RegisterResetHook appends h to the set of hooks invoked by Reset, in
// registration order.
func (e *Engine) RegisterResetHook(h ResetHook) {
	e.resetHooks = append(e.resetHooks, h)
}

// Reset clears the queue, resets Now to 0, and invokes every registered
// reset hook in registration order. It does not clear registered Hooks;
// trace/logging observers survive a reset, since HookableBase is never
// cleared by the components that embed it.
func (e *Engine) Reset() {
	e.queue = nil
	heap.Init(&e.queue)
	e.index = make(map[Handle]*scheduledEvent)
	e.now = 0
	e.stopped = false

	for _, hook := range e.resetHooks {
		hook()
	}
}
