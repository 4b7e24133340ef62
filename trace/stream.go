package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/netsim-core/ethermac/sim"
)

// HookPosTraceEvent is the HookPos a trace source uses when invoking a
// Stream through InvokeHook.
var HookPosTraceEvent = &sim.HookPos{Name: "Trace Event"}

// Stream is a single trace output channel: a sink, a per-entity status and
// detail configuration, and the line-discipline cursor (current node,
// current packet, current time, current column) that collapses consecutive
// events sharing a time+node prefix onto one line.
//
// Stream implements sim.Hook, so it is wired into a component the same way
// sim.EventLogger is wired into an Engine: AcceptHook(stream).
type Stream struct {
	sink  io.Writer
	clock func() sim.VTimeInSec

	status        map[Entity]Status
	detail        map[Entity]Detail
	defaultStatus Status
	defaultDetail Detail
	timeFormat    string

	colIndex    int
	haveNode    bool
	curNode     int
	curPacket   string
	havePacket  bool
	lastLogTime sim.VTimeInSec
	haveLogged  bool
}

// NewStream creates a Stream writing to sink, reading the simulation clock
// through clock. By default every entity is disabled; callers opt entities
// in with SetStatus.
func NewStream(sink io.Writer, clock func() sim.VTimeInSec) *Stream {
	return &Stream{
		sink:          sink,
		clock:         clock,
		status:        make(map[Entity]Status),
		detail:        make(map[Entity]Detail),
		defaultStatus: StatusDisabled,
		defaultDetail: AllDetail(),
		timeFormat:    "%7.3f",
	}
}

// SetStatus sets the enable/disable status for an entity. Resolution at
// write time checks, in order, the node, then the protocol instance, then
// the layer, then the Stream's own default: the first non-default value
// found wins.
func (s *Stream) SetStatus(e Entity, status Status) {
	s.status[e] = status
}

// SetDefaultStatus sets the Stream-wide fallback status used when no entity
// in an Event's resolution chain has an explicit status.
func (s *Stream) SetDefaultStatus(status Status) {
	s.defaultStatus = status
}

// SetDetail sets which event tags render for an entity once it resolves to
// enabled.
func (s *Stream) SetDetail(e Entity, detail Detail) {
	s.detail[e] = detail
}

// SetDefaultDetail sets the Stream-wide fallback detail used when no entity
// in the resolution chain has an explicit detail configured.
func (s *Stream) SetDefaultDetail(detail Detail) {
	s.defaultDetail = detail
}

func (s *Stream) effectiveStatus(p Protocol) Status {
	if st, ok := s.status[NodeEntity(p.NodeUID)]; ok && st != StatusDefault {
		return st
	}
	if st, ok := s.status[ProtocolEntity(p.ID)]; ok && st != StatusDefault {
		return st
	}
	if st, ok := s.status[LayerEntity(p.Layer)]; ok && st != StatusDefault {
		return st
	}
	return s.defaultStatus
}

func (s *Stream) effectiveDetail(p Protocol) Detail {
	if d, ok := s.detail[ProtocolEntity(p.ID)]; ok && !d.isZero() {
		return d
	}
	if d, ok := s.detail[NodeEntity(p.NodeUID)]; ok && !d.isZero() {
		return d
	}
	if d, ok := s.detail[LayerEntity(p.Layer)]; ok && !d.isZero() {
		return d
	}
	return s.defaultDetail
}

// Func implements sim.Hook. It is the entry point trace sources invoke
// through InvokeHook; disabled or filtered events are dropped silently.
func (s *Stream) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosTraceEvent {
		return
	}
	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}
	s.Emit(evt)
}

// Emit is the non-hook entry point: callers that do not want to route
// through InvokeHook (for instance because they hold several Streams
// directly) can call it on an Event built the same way a trace source would
// build one for Func.
func (s *Stream) Emit(evt Event) {
	if s.effectiveStatus(evt.Protocol) != StatusEnabled {
		return
	}
	if !s.effectiveDetail(evt.Protocol).allows(evt.EventTag) {
		return
	}

	now := s.clock()

	nodeChanged := !s.haveNode || s.curNode != evt.NodeUID
	timeChanged := !s.haveLogged || s.lastLogTime != now

	packetChanged := false
	if evt.Packet != nil {
		packetChanged = s.havePacket && s.curPacket != evt.Packet.Key
	}

	if s.colIndex > 0 && (nodeChanged || packetChanged || timeChanged) {
		s.writeByte('\n')
	} else if s.colIndex > 0 {
		s.writeByte(' ')
	}

	s.curNode = evt.NodeUID
	s.haveNode = true
	s.lastLogTime = now
	s.haveLogged = true
	if evt.Packet != nil {
		s.curPacket = evt.Packet.Key
		s.havePacket = true
	}

	s.writeString(renderTokens(evt))
}

func renderTokens(evt Event) string {
	var b strings.Builder
	if evt.Protocol.ID != "" {
		b.WriteString("[")
		b.WriteString(evt.Protocol.ID)
		b.WriteString("]")
	}
	if evt.EventTag != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(evt.EventTag)
	}
	if evt.Packet != nil && evt.Packet.Summary != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('[')
		b.WriteString(collapseNewlines(evt.Packet.Summary))
		b.WriteByte(']')
	}
	if evt.Text != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(collapseNewlines(evt.Text))
	}
	return b.String()
}

func collapseNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// Reset ends any line in progress, flushes the sink (if it supports
// flushing) and zeros the line discipline cursor so the next Emit starts a
// fresh line and prefix.
func (s *Stream) Reset() {
	if s.colIndex > 0 {
		s.writeByte('\n')
	}
	if f, ok := s.sink.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
	s.colIndex = 0
	s.haveNode = false
	s.havePacket = false
	s.haveLogged = false
	s.lastLogTime = s.clock()
}

// Write implements io.Writer with the same per-character line discipline
// Emit uses, letting a caller Fprintf straight into a Stream.
func (s *Stream) Write(p []byte) (int, error) {
	for _, b := range p {
		s.writeByte(b)
	}
	return len(p), nil
}

func (s *Stream) writeString(str string) {
	for i := 0; i < len(str); i++ {
		s.writeByte(str[i])
	}
}

func (s *Stream) writeByte(b byte) {
	if b == '\n' {
		_, _ = s.sink.Write([]byte{'\n'})
		s.colIndex = 0
		return
	}

	if s.colIndex == 0 {
		prefix := fmt.Sprintf(s.timeFormat+" N%d ", float64(s.lastLogTime), s.curNode)
		_, _ = s.sink.Write([]byte(prefix))
		s.colIndex += len(prefix)
	}

	_, _ = s.sink.Write([]byte{b})
	s.colIndex++
}
