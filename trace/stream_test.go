package trace_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/netsim-core/ethermac/sim"
	"github.com/netsim-core/ethermac/trace"
)

var _ = Describe("Stream", func() {
	var (
		buf    *bytes.Buffer
		now    sim.VTimeInSec
		stream *trace.Stream
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		now = 0
		stream = trace.NewStream(buf, func() sim.VTimeInSec { return now })
	})

	proto := trace.Protocol{NodeUID: 3, ID: "Node3.Eth0", Layer: 2}

	It("drops events for entities that resolve to disabled", func() {
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-C"})
		Expect(buf.String()).To(BeEmpty())
	})

	It("emits once a node is explicitly enabled", func() {
		stream.SetStatus(trace.NodeEntity(3), trace.StatusEnabled)
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-C"})
		Expect(buf.String()).To(ContainSubstring("L2-C"))
		Expect(buf.String()).To(ContainSubstring("N3"))
	})

	It("lets a node-level enable win over a protocol-level disable", func() {
		stream.SetStatus(trace.NodeEntity(3), trace.StatusEnabled)
		stream.SetStatus(trace.ProtocolEntity("Node3.Eth0"), trace.StatusDisabled)
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-C"})
		Expect(buf.String()).To(ContainSubstring("L2-C"))
	})

	It("filters by detail tags once enabled", func() {
		stream.SetStatus(trace.NodeEntity(3), trace.StatusEnabled)
		stream.SetDetail(trace.NodeEntity(3), trace.TagsDetail("L2-C"))

		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-C"})
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-B"})

		Expect(buf.String()).To(ContainSubstring("L2-C"))
		Expect(buf.String()).NotTo(ContainSubstring("L2-B"))
	})

	It("collapses events sharing a time and node prefix onto one line", func() {
		stream.SetStatus(trace.NodeEntity(3), trace.StatusEnabled)

		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-QD"})
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-C"})

		lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
		Expect(lines).To(HaveLen(1))
		Expect(string(lines[0])).To(ContainSubstring("L2-QD"))
		Expect(string(lines[0])).To(ContainSubstring("L2-C"))
	})

	It("starts a new line when simulation time advances", func() {
		stream.SetStatus(trace.NodeEntity(3), trace.StatusEnabled)

		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-QD"})
		now = 1
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-C"})

		lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
		Expect(lines).To(HaveLen(2))
	})

	It("starts a new line when the node changes", func() {
		stream.SetStatus(trace.NodeEntity(3), trace.StatusEnabled)
		stream.SetStatus(trace.NodeEntity(4), trace.StatusEnabled)

		other := trace.Protocol{NodeUID: 4, ID: "Node4.Eth0", Layer: 2}
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-QD"})
		stream.Emit(trace.Event{NodeUID: 4, Protocol: other, EventTag: "L2-QD"})

		lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
		Expect(lines).To(HaveLen(2))
	})

	It("starts a new line when the current packet changes", func() {
		stream.SetStatus(trace.NodeEntity(3), trace.StatusEnabled)

		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-QD", Packet: &trace.PacketRef{Key: "p1"}})
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-C", Packet: &trace.PacketRef{Key: "p2"}})

		lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
		Expect(lines).To(HaveLen(2))
	})

	It("replaces embedded newlines in free text", func() {
		stream.SetStatus(trace.NodeEntity(3), trace.StatusEnabled)
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-ID", Text: "line1\nline2"})
		Expect(buf.String()).NotTo(ContainSubstring("line1\nline2"))
		Expect(buf.String()).To(ContainSubstring("line1 line2"))
	})

	It("resets the line discipline cursor", func() {
		stream.SetStatus(trace.NodeEntity(3), trace.StatusEnabled)
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-QD"})

		stream.Reset()
		now = 5
		stream.Emit(trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-C"})

		lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
		Expect(lines).To(HaveLen(2))
	})

	It("is wired as a sim.Hook via InvokeHook", func() {
		stream.SetStatus(trace.NodeEntity(3), trace.StatusEnabled)

		hookable := sim.NewHookableBase()
		hookable.AcceptHook(stream)
		hookable.InvokeHook(sim.HookCtx{
			Pos:  trace.HookPosTraceEvent,
			Item: trace.Event{NodeUID: 3, Protocol: proto, EventTag: "L2-B"},
		})

		Expect(buf.String()).To(ContainSubstring("L2-B"))
	})
})
