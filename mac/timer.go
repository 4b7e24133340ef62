package mac

import "github.com/netsim-core/ethermac/sim"

// TimerKind enumerates the self-timers an Interface can have outstanding.
// Using a small fixed enumeration as the lookup key, rather than a
// callback-object identity, makes lookup and cancellation O(1) and
// independent of function-object identity.
type TimerKind int

const (
	TimerRetransmit TimerKind = iota
	TimerChanAcq
	TimerReceive
)

// timerTable holds at most one outstanding scheduler handle per TimerKind:
// at most one outstanding self-timer per (kind, interface) pair.
type timerTable struct {
	engine  *sim.Engine
	handles map[TimerKind]sim.Handle
	armed   map[TimerKind]bool
}

func newTimerTable(engine *sim.Engine) *timerTable {
	return &timerTable{
		engine:  engine,
		handles: make(map[TimerKind]sim.Handle),
		armed:   make(map[TimerKind]bool),
	}
}

// Pending reports whether a timer of kind k is currently outstanding.
func (t *timerTable) Pending(k TimerKind) bool {
	return t.armed[k]
}

// Arm schedules cb to run after delay and records it under k. Arming a kind
// that already has an outstanding timer first cancels the old one, so at
// most one instance per kind is ever outstanding.
func (t *timerTable) Arm(k TimerKind, delay sim.VTimeInSec, cb sim.Callback) {
	t.Cancel(k)
	t.handles[k] = t.engine.Schedule(delay, func(now sim.VTimeInSec) {
		t.armed[k] = false
		cb(now)
	})
	t.armed[k] = true
}

// ArmIfIdle arms k only if no timer of that kind is currently outstanding.
func (t *timerTable) ArmIfIdle(k TimerKind, delay sim.VTimeInSec, cb sim.Callback) {
	if t.armed[k] {
		return
	}
	t.Arm(k, delay, cb)
}

// Cancel removes the timer under k from both the table and the scheduler.
// It is idempotent: cancelling an already-fired or never-armed kind is a
// no-op.
func (t *timerTable) Cancel(k TimerKind) {
	if !t.armed[k] {
		return
	}
	t.engine.Cancel(t.handles[k])
	t.armed[k] = false
	delete(t.handles, k)
}

// Reset clears every outstanding timer without touching the scheduler
// (used by Interface.reset, which is invoked after the Engine itself has
// already been cleared during sim.Engine.Reset).
func (t *timerTable) Reset() {
	t.handles = make(map[TimerKind]sim.Handle)
	t.armed = make(map[TimerKind]bool)
}
