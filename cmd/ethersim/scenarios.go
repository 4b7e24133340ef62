package main

import (
	"io"
	"sort"

	"github.com/netsim-core/ethermac/mac"
	"github.com/netsim-core/ethermac/sim"
	"github.com/netsim-core/ethermac/simcontext"
	"github.com/netsim-core/ethermac/trace"
)

type scenarioFunc func(w io.Writer, detail mac.Detail) error

var scenarios = map[string]scenarioFunc{
	"single-send": scenarioSingleSend,
	"collision":   scenarioCollision,
	"broadcast":   scenarioBroadcast,
	"full-detail": scenarioFullDetail,
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newContext(w io.Writer) *simcontext.Context {
	return simcontext.MakeBuilder().
		WithTraceSink(w).
		WithDefaultTraceStatus(trace.StatusEnabled).
		Build()
}

// scenarioSingleSend sends one packet with no contention.
func scenarioSingleSend(w io.Writer, detail mac.Detail) error {
	ctx := newContext(w)
	link := ctx.NewLink(10e6, detail)
	i0 := ctx.Attach(link, mac.NewNode(0))
	i1 := ctx.Attach(link, mac.NewNode(1))

	pkt := mac.NewPacket(1000, mac.Address{}, mac.Address{})
	i0.Send(pkt, i1.Address())

	return ctx.Engine.Run(sim.VTimeInSec(0.01))
}

// scenarioCollision has two nodes sending at once.
func scenarioCollision(w io.Writer, detail mac.Detail) error {
	ctx := newContext(w)
	link := ctx.NewLink(10e6, detail)
	i0 := ctx.Attach(link, mac.NewNode(0))
	i1 := ctx.Attach(link, mac.NewNode(1))

	p0 := mac.NewPacket(1000, mac.Address{}, mac.Address{})
	p1 := mac.NewPacket(1000, mac.Address{}, mac.Address{})
	i0.Send(p0, i1.Address())
	i1.Send(p1, i0.Address())

	return ctx.Engine.Run(sim.VTimeInSec(1))
}

// scenarioBroadcast sends a broadcast on a 3-node bus.
func scenarioBroadcast(w io.Writer, detail mac.Detail) error {
	ctx := newContext(w)
	link := ctx.NewLink(10e6, detail)
	i0 := ctx.Attach(link, mac.NewNode(0))
	ctx.Attach(link, mac.NewNode(1))
	ctx.Attach(link, mac.NewNode(2))

	pkt := mac.NewPacket(500, mac.Address{}, mac.Address{})
	i0.Send(pkt, mac.Broadcast)

	return ctx.Engine.Run(sim.VTimeInSec(0.01))
}

// scenarioFullDetail sends one packet over a full-detail link with
// propagation delay. detail is ignored in favor of DetailFull, since the
// scenario exists specifically to exercise propagation delay.
func scenarioFullDetail(w io.Writer, detail mac.Detail) error {
	ctx := newContext(w)
	link := ctx.NewLink(10e6, mac.DetailFull)
	i0 := ctx.Attach(link, mac.NewNode(0))
	i1 := ctx.Attach(link, mac.NewNode(1))

	pkt := mac.NewPacket(1000, mac.Address{}, mac.Address{})
	i0.Send(pkt, i1.Address())

	return ctx.Engine.Run(sim.VTimeInSec(0.01))
}
