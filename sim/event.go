package sim

// VTimeInSec defines the time in the simulated space in the unit of second.
type VTimeInSec float64

// Callback is invoked when its scheduled event fires. now is the simulation
// time at which the callback runs, which is always the time the event was
// scheduled for.
type Callback func(now VTimeInSec)

// Handle identifies a previously scheduled event so that it can be
// cancelled. The zero Handle never refers to a real event.
type Handle uint64

// scheduledEvent is the internal representation of one entry in the event
// queue. It satisfies the heap.Interface element contract through eventHeap.
type scheduledEvent struct {
	handle    Handle
	time      VTimeInSec
	seq       uint64
	cb        Callback
	cancelled bool
}

// Time returns the time at which the event is due to fire.
func (e *scheduledEvent) Time() VTimeInSec {
	return e.time
}
