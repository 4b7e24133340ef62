package mac

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/netsim-core/ethermac/sim"
	"github.com/netsim-core/ethermac/trace"
)

// Interface is one MAC endpoint attached to a Link. It is a CSMA/CD state
// machine, driven entirely through self-timers scheduled on a sim.Engine and
// observed entirely through trace hooks.
type Interface struct {
	sim.HookableBase

	engine *sim.Engine
	link   *Link
	node   *Node

	address    Address
	protocolID string

	busyEndTime  sim.VTimeInSec
	busyEndKnown bool
	busyCount    int

	txFinishTime sim.VTimeInSec
	holdTime     sim.VTimeInSec
	rxTime       sim.VTimeInSec

	maxBackOff   int
	backOffTimer sim.VTimeInSec
	maxWaitTime  sim.VTimeInSec

	lastPacketSent *Packet
	bcast          bool
	collision      bool

	rng *rand.Rand

	queue  sim.Buffer
	timers *timerTable

	// rxOwnBroadcast controls whether a broadcast this interface itself
	// sends is also delivered back to it.
	rxOwnBroadcast bool

	deliveries []*Packet
}

func newInterface(engine *sim.Engine, link *Link, node *Node) *Interface {
	iface := &Interface{
		engine:       engine,
		link:         link,
		node:         node,
		address:      AddressFromUint64(uint64(node.UID)),
		protocolID:   fmt.Sprintf("N%d.mac", node.UID),
		busyEndKnown: true,
		maxBackOff:   InitialBackoff,
		// Seeded per interface, independent of any other source of
		// randomness, so that a fixed seed per interface gives a
		// bit-for-bit reproducible run.
		rng:            rand.New(rand.NewSource(int64(node.UID) + 1)),
		queue:          sim.NewBuffer(fmt.Sprintf("N%d.mac.queue", node.UID), 0),
		rxOwnBroadcast: true,
	}
	iface.timers = newTimerTable(engine)

	engine.RegisterResetHook(iface.reset)

	return iface
}

// Address returns the interface's MAC address.
func (i *Interface) Address() Address {
	return i.address
}

// Node returns the Node this interface belongs to.
func (i *Interface) Node() *Node {
	return i.node
}

// Link returns the Link this interface is attached to.
func (i *Interface) Link() *Link {
	return i.link
}

// Queue exposes the outbound packet queue, mostly for tests and inspection;
// production callers drive the interface through Send.
func (i *Interface) Queue() sim.Buffer {
	return i.queue
}

// MaxBackOff returns the current contention-window ceiling, in slot units.
func (i *Interface) MaxBackOff() int {
	return i.maxBackOff
}

// Collision reports whether the interface is currently between detecting a
// collision and completing its backoff.
func (i *Interface) Collision() bool {
	return i.collision
}

// Deliveries returns every packet this interface has successfully received
// so far, in arrival order.
func (i *Interface) Deliveries() []*Packet {
	return i.deliveries
}

// SetRxOwnBroadcast controls whether this interface observes a receive
// event for its own broadcast sends.
func (i *Interface) SetRxOwnBroadcast(rx bool) {
	i.rxOwnBroadcast = rx
}

func (i *Interface) reset() {
	i.busyEndTime = 0
	i.busyEndKnown = true
	i.busyCount = 0
	i.txFinishTime = 0
	i.holdTime = 0
	i.rxTime = 0
	i.maxBackOff = InitialBackoff
	i.backOffTimer = 0
	i.lastPacketSent = nil
	i.bcast = false
	i.collision = false
	i.queue.Clear()
	i.timers.Reset()
	i.deliveries = nil
}

func (i *Interface) traceEvent(eventTag string, pkt *Packet, text string) {
	if i.NumHooks() == 0 {
		return
	}

	var ref *trace.PacketRef
	if pkt != nil {
		ref = &trace.PacketRef{
			Key: pkt.ID,
			Summary: fmt.Sprintf(
				"sz=%d retx=%d src=%s dst=%s", pkt.Size, pkt.RetxCount, pkt.Src, pkt.Dst,
			),
		}
	}

	i.InvokeHook(sim.HookCtx{
		Domain: i,
		Pos:    trace.HookPosTraceEvent,
		Item: trace.Event{
			NodeUID:  i.node.UID,
			Protocol: trace.Protocol{NodeUID: i.node.UID, ID: i.protocolID, Layer: 2},
			EventTag: eventTag,
			Packet:   ref,
			Text:     text,
		},
	})
}

// senseChannel reports whether the medium is currently clear to transmit on.
// Its first check reads as inverted from the natural phrasing of "are we
// clear to transmit" — that inversion is intentional and preserved exactly.
// But the wait it computes is honored literally: once there is nothing left
// to wait for (rxTime has reached zero or gone negative), sensing falls
// through to the remote-busy check instead of reporting busy forever, which
// is what lets a self-timer armed at that wait ever resolve into an actual
// transmission.
func (i *Interface) senseChannel() bool {
	now := i.engine.Now()

	if i.txFinishTime < now || i.holdTime < now {
		quiescentAt := i.txFinishTime
		if i.holdTime > quiescentAt {
			quiescentAt = i.holdTime
		}
		i.rxTime = quiescentAt - now
		if i.rxTime > 0 {
			return false
		}
	}

	if !i.busyEndKnown || now < i.busyEndTime {
		if i.busyEndKnown {
			i.rxTime = i.busyEndTime - now
		}
		return false
	}

	i.collision = false
	return true
}

// nonNegative clamps a computed wait to zero. Propagation-delay-free retry
// math occasionally lands a hair past its own deadline (a long-idle
// interface sensing again, or a clr arriving after its hold window already
// lapsed); the scheduler rejects negative delays outright, so any wait
// derived from "time remaining until X" is routed through this before being
// handed to a timer.
func nonNegative(d sim.VTimeInSec) sim.VTimeInSec {
	if d < 0 {
		return 0
	}
	return d
}

func (i *Interface) dequeue() *Packet {
	v := i.queue.Pop()
	if v == nil {
		return nil
	}
	return v.(*Packet)
}

// Retransmit attempts to send p, or (if p is nil) the head of the outbound
// queue, applying the attempt limit and backoff/requeue rules.
func (i *Interface) Retransmit(p *Packet) {
	if p == nil {
		p = i.dequeue()
		if p == nil {
			return
		}
	}

	p.RetxCount++
	if p.RetxCount > AttemptLimit {
		i.traceEvent("L2-QD", p, "")
		if i.queue.Size() > 0 {
			i.Retransmit(nil)
		}
		return
	}

	i.traceEvent("L2-RA", p, fmt.Sprintf("%d", p.RetxCount))

	if i.senseChannel() {
		i.transmit(p)
		return
	}

	// Busy path. The retry count decrement happens after the packet is
	// re-enqueued; this ordering is intentional and preserved exactly
	// rather than reordered for "cleaner" semantics.
	i.timers.ArmIfIdle(TimerRetransmit, nonNegative(i.rxTime), func(sim.VTimeInSec) { i.Retransmit(nil) })
	i.queue.Push(p)
	p.RetxCount--
	i.traceEvent("L2-B", p, "")
}

func (i *Interface) transmit(p *Packet) {
	now := i.engine.Now()
	bandwidth := i.link.Bandwidth()

	for _, peer := range i.link.Peers(i) {
		delay := i.link.PropagationDelay(i, peer)
		dst := peer
		i.engine.Schedule(delay, func(sim.VTimeInSec) {
			dst.firstBitReceived(i, p)
		})
	}

	txTime := sim.VTimeInSec(float64(p.Size)*8) / sim.VTimeInSec(bandwidth)
	i.txFinishTime = now + txTime
	i.holdTime = i.txFinishTime + sim.VTimeInSec(InterFrameGap)/sim.VTimeInSec(bandwidth)
	i.rxTime = i.holdTime - now
	i.bcast = p.Dst.IsBroadcast()
	i.lastPacketSent = p

	if i.bcast && i.rxOwnBroadcast {
		selfCopy := p.Clone()
		i.engine.Schedule(txTime, func(sim.VTimeInSec) {
			i.deliveries = append(i.deliveries, selfCopy)
		})
	}

	if !i.timers.Pending(TimerRetransmit) && i.queue.Size() > 0 {
		i.timers.Arm(TimerRetransmit, i.rxTime, func(sim.VTimeInSec) { i.Retransmit(nil) })
	}

	if !i.timers.Pending(TimerChanAcq) {
		i.recomputeMaxWaitTime()
		i.timers.Arm(TimerChanAcq, 2*i.maxWaitTime, func(sim.VTimeInSec) { i.chanAcq() })
	}
}

func (i *Interface) recomputeMaxWaitTime() {
	var max sim.VTimeInSec
	for _, peer := range i.link.Peers(i) {
		d := i.link.PropagationDelay(i, peer)
		if d > max {
			max = d
		}
	}
	i.maxWaitTime = max
}

// firstBitReceived handles the arrival of the first bit of a frame from
// from. It dispatches to one of three cases: an in-progress transmission of
// our own (collision), the medium already sensed busy (bus becoming busier),
// or a clean arrival (normal passing traffic, which schedules delivery once
// reception completes).
func (i *Interface) firstBitReceived(from *Interface, pkt *Packet) {
	now := i.engine.Now()
	bandwidth := i.link.Bandwidth()
	size := pkt.Size

	if now < i.txFinishTime {
		if i.collision {
			return
		}

		i.timers.Cancel(TimerReceive)
		i.traceEvent("L2-C", i.lastPacketSent, "")
		i.timers.Cancel(TimerChanAcq)

		for _, peer := range i.link.Peers(i) {
			delay := i.link.PropagationDelay(i, peer)
			dst := peer
			i.engine.Schedule(delay, func(sim.VTimeInSec) { dst.clr() })
		}

		i.txFinishTime = now
		i.collision = true

		i.maxBackOff = min(2*i.maxBackOff, BackoffLimit)

		slotSeconds := sim.VTimeInSec(SlotTime) / sim.VTimeInSec(bandwidth)
		slots := math.Ceil(i.rng.Float64() * float64(i.maxBackOff))
		i.backOffTimer = slotSeconds * sim.VTimeInSec(slots)

		jamSeconds := sim.VTimeInSec(JamTime) / sim.VTimeInSec(bandwidth)
		i.holdTime = i.txFinishTime + i.backOffTimer + jamSeconds

		if i.lastPacketSent != nil {
			if i.queue.CanPush() {
				i.queue.Push(i.lastPacketSent)
			}
			i.lastPacketSent = nil
		}

		i.timers.Arm(TimerRetransmit, nonNegative(i.holdTime-now), func(sim.VTimeInSec) { i.Retransmit(nil) })
		return
	}

	if !i.busyEndKnown || now < i.busyEndTime {
		i.busyCount++
		i.busyEndKnown = false
		return
	}

	txTime := sim.VTimeInSec(float64(8*size)) / sim.VTimeInSec(bandwidth)
	i.busyEndTime = now + txTime
	i.busyEndKnown = true
	i.holdTime = i.busyEndTime + sim.VTimeInSec(InterFrameGap)/sim.VTimeInSec(bandwidth)

	if i.queue.Size() > 0 && !i.timers.Pending(TimerRetransmit) {
		i.timers.Arm(TimerRetransmit, nonNegative(i.holdTime-now), func(sim.VTimeInSec) { i.Retransmit(nil) })
	}

	i.timers.Arm(TimerReceive, txTime, func(sim.VTimeInSec) { i.completeReceive(pkt) })
}

func (i *Interface) completeReceive(pkt *Packet) {
	if !pkt.Dst.IsBroadcast() && pkt.Dst != i.address {
		return
	}
	i.deliveries = append(i.deliveries, pkt.Clone())
}

// clr retires one pending collision-recovery token for the medium. The
// floor-at-1 on busyCount below is intentional and preserved exactly.
func (i *Interface) clr() {
	now := i.engine.Now()
	bandwidth := i.link.Bandwidth()

	i.busyCount--
	if i.busyCount <= 0 {
		i.busyCount = 1
		i.busyEndTime = now
		i.busyEndKnown = true
	}

	if !i.collision {
		i.holdTime = i.busyEndTime + sim.VTimeInSec(JamTime)/sim.VTimeInSec(bandwidth)
	}

	i.timers.Arm(TimerRetransmit, nonNegative(i.holdTime-now), func(sim.VTimeInSec) { i.Retransmit(nil) })
}

// chanAcq is the channel-acquired watchdog: it fires 2*maxWaitTime after a
// transmission starts unless a collision cancels it first, resetting the
// backoff ceiling.
func (i *Interface) chanAcq() {
	i.maxBackOff = InitialBackoff
}

// Send is the high-level entry point for handing a packet to the interface
// for transmission to dst.
func (i *Interface) Send(pkt *Packet, dst Address) {
	if i.node.Down() {
		i.traceEvent("L2-ID", pkt, "")
		return
	}

	pkt.Src = i.address
	pkt.Dst = dst
	pkt.RetxCount = 0

	i.timers.Cancel(TimerRetransmit)
	i.Retransmit(pkt)
}
