// Package trace implements a hierarchical, per-entity structured logging
// channel that the MAC (and any other component wired in as a trace source)
// writes through.
//
// A Stream is a sim.Hook. It is attached to whichever sim.Hookable objects
// should be observed (typically one per Interface) with AcceptHook, and it
// receives Events through Func the same way sim.EventLogger receives
// scheduledEvent notifications from the Engine.
package trace

import "strconv"

// Protocol identifies the (node, protocol instance, layer) triple that an
// Event is attributed to. It is the unit that status and detail are resolved
// against.
type Protocol struct {
	NodeUID int
	ID      string
	Layer   int
}

// Status is the tri-state enable/disable value stored per entity. Default
// means "not set here", allowing the resolution chain to fall through to a
// less specific entity.
type Status int

const (
	StatusDefault Status = iota
	StatusEnabled
	StatusDisabled
)

type entityKind int

const (
	entityNode entityKind = iota
	entityProtocol
	entityLayer
)

// Entity is a key into a Stream's per-entity status and detail maps. Use
// NodeEntity, ProtocolEntity, or LayerEntity to build one.
type Entity struct {
	kind entityKind
	key  string
}

// NodeEntity identifies a node by its unique id.
func NodeEntity(nodeUID int) Entity {
	return Entity{kind: entityNode, key: strconv.Itoa(nodeUID)}
}

// ProtocolEntity identifies a single protocol instance by its id.
func ProtocolEntity(protocolID string) Entity {
	return Entity{kind: entityProtocol, key: protocolID}
}

// LayerEntity identifies every protocol instance running at layer.
func LayerEntity(layer int) Entity {
	return Entity{kind: entityLayer, key: strconv.Itoa(layer)}
}

// Detail selects which event tags a Stream renders for an entity once its
// Status has resolved to enabled. All overrides Tags: when All is set every
// event tag is rendered regardless of what Tags holds.
type Detail struct {
	All  bool
	Tags map[string]bool
}

// AllDetail returns a Detail that renders every event tag.
func AllDetail() Detail {
	return Detail{All: true}
}

// TagsDetail returns a Detail that renders only the listed event tags.
func TagsDetail(tags ...string) Detail {
	d := Detail{Tags: make(map[string]bool, len(tags))}
	for _, t := range tags {
		d.Tags[t] = true
	}
	return d
}

func (d Detail) isZero() bool {
	return !d.All && len(d.Tags) == 0
}

// allows reports whether an event tagged eventTag should be rendered. An
// unconfigured (zero-value) Detail renders everything; a configured Detail
// renders only what All or Tags explicitly allows.
func (d Detail) allows(eventTag string) bool {
	if d.isZero() {
		return true
	}
	if d.All {
		return true
	}
	return d.Tags[eventTag]
}

// PacketRef is the minimal, trace-only view of a packet that a caller puts
// in an Event: enough to detect a change of "current packet" for the line
// discipline and enough to render a one-line summary. Callers build one from
// whatever concrete packet type they hold; trace never imports mac.
type PacketRef struct {
	Key     string
	Summary string
}

// Event is the payload a trace source hands to Stream.Func through HookCtx.Item.
type Event struct {
	NodeUID  int
	Protocol Protocol
	// EventTag is the short code identifying the kind of event, e.g.
	// "L2-RA", "L2-C", "L2-B", "L2-QD", "L2-ID".
	EventTag string
	Packet   *PacketRef
	Text     string
}
