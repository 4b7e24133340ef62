package mac

import (
	"log"
	"math"

	"github.com/google/uuid"

	"github.com/netsim-core/ethermac/sim"
)

// Detail is a tagged variant in place of runtime polymorphism on the link's
// detail level: None and Partial share the zero-delay path, Full carries
// per-interface locations and a real propagation delay.
type Detail int

const (
	DetailNone Detail = iota
	DetailPartial
	DetailFull
)

// ParseDetail maps a configuration keyword to a Detail. "none" and "full"
// map exactly; everything else — including the misspelled "parial" that
// configuration files sometimes carry — maps to DetailPartial, preserving a
// historical typo's accidental fallback behavior rather than rejecting it.
func ParseDetail(keyword string) Detail {
	switch keyword {
	case "none":
		return DetailNone
	case "full":
		return DetailFull
	default:
		return DetailPartial
	}
}

// Link is the shared Ethernet medium (the "Bus"). Interfaces attach to it in
// a fixed order for the life of a run; that order is also the tie-break
// order used for same-time multi-peer events.
type Link struct {
	ID         uuid.UUID
	bandwidth  float64 // bits/sec
	detail     Detail
	interfaces []*Interface
	byNode     map[*Node]*Interface
	locations  map[*Interface]Location
}

// NewLink creates a Link with the given bandwidth (bits/sec) and detail
// level. bandwidth must be positive.
func NewLink(bandwidth float64, detail Detail) *Link {
	if bandwidth <= 0 {
		log.Panicf("mac: link bandwidth must be positive, got %v", bandwidth)
	}
	return &Link{
		ID:        uuid.New(),
		bandwidth: bandwidth,
		detail:    detail,
		byNode:    make(map[*Node]*Interface),
		locations: make(map[*Interface]Location),
	}
}

// Bandwidth returns the link's bandwidth in bits/sec.
func (l *Link) Bandwidth() float64 {
	return l.bandwidth
}

// Detail returns the link's fixed detail level.
func (l *Link) Detail() Detail {
	return l.detail
}

// Attach adds a new Interface to the link for node. It panics if node is
// already attached. On a full-detail link the new interface is placed at
// node.Location if the node was given one, or at the default
// (0, attachment_index) otherwise.
func (l *Link) Attach(engine *sim.Engine, node *Node) *Interface {
	if _, ok := l.byNode[node]; ok {
		log.Panicf("mac: node %d is already attached to this link", node.UID)
	}

	index := len(l.interfaces)
	iface := newInterface(engine, l, node)
	l.interfaces = append(l.interfaces, iface)
	l.byNode[node] = iface

	if l.detail == DetailFull {
		loc := Location{X: 0, Y: float64(index)}
		if node.Location != nil {
			loc = *node.Location
		}
		l.locations[iface] = loc
	}

	return iface
}

// Interfaces returns every interface attached to the link, in attachment
// order, including self.
func (l *Link) Interfaces() []*Interface {
	return l.interfaces
}

// Peers returns every interface attached to the link other than self, in
// attachment order.
func (l *Link) Peers(self *Interface) []*Interface {
	peers := make([]*Interface, 0, len(l.interfaces)-1)
	for _, iface := range l.interfaces {
		if iface != self {
			peers = append(peers, iface)
		}
	}
	return peers
}

// PropagationDelay returns the one-way delay between i and j: the euclidean
// distance between their locations divided by the speed of light on a
// full-detail link, and zero on partial or none.
func (l *Link) PropagationDelay(i, j *Interface) sim.VTimeInSec {
	if l.detail != DetailFull || i == j {
		return 0
	}

	li, liok := l.locations[i]
	lj, ljok := l.locations[j]
	if !liok || !ljok {
		return 0
	}

	dx := li.X - lj.X
	dy := li.Y - lj.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	return sim.VTimeInSec(dist / SpeedOfLight)
}
