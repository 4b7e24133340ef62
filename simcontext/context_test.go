package simcontext_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/netsim-core/ethermac/mac"
	"github.com/netsim-core/ethermac/sim"
	"github.com/netsim-core/ethermac/simcontext"
	"github.com/netsim-core/ethermac/trace"
)

var _ = Describe("Context", func() {
	It("wires attached interfaces to the default trace stream", func() {
		var buf bytes.Buffer
		ctx := simcontext.MakeBuilder().
			WithTraceSink(&buf).
			WithDefaultTraceStatus(trace.StatusEnabled).
			Build()

		link := ctx.NewLink(10e6, mac.DetailPartial)
		i0 := ctx.Attach(link, mac.NewNode(0))
		i1 := ctx.Attach(link, mac.NewNode(1))

		pkt := mac.NewPacket(1000, mac.Address{}, mac.Address{})
		i0.Send(pkt, i1.Address())
		Expect(ctx.Engine.Run(sim.VTimeInSec(0.01))).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("L2-RA"))
	})

	It("resets the trace stream's line discipline along with the engine", func() {
		var buf bytes.Buffer
		ctx := simcontext.MakeBuilder().
			WithTraceSink(&buf).
			WithDefaultTraceStatus(trace.StatusEnabled).
			Build()

		link := ctx.NewLink(10e6, mac.DetailPartial)
		i0 := ctx.Attach(link, mac.NewNode(0))
		i1 := ctx.Attach(link, mac.NewNode(1))

		pkt := mac.NewPacket(100, mac.Address{}, mac.Address{})
		i0.Send(pkt, i1.Address())
		Expect(ctx.Engine.Run(sim.VTimeInSec(0.01))).To(Succeed())

		ctx.Reset()

		Expect(buf.String()).To(HaveSuffix("\n"))
		Expect(ctx.Engine.Now()).To(Equal(sim.VTimeInSec(0)))
		Expect(ctx.Engine.Pending()).To(Equal(0))
	})

	It("returns the same process-wide Context from Default", func() {
		Expect(simcontext.Default()).To(BeIdenticalTo(simcontext.Default()))
	})
})
