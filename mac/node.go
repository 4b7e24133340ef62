package mac

import "github.com/google/uuid"

// Location is a point in the plane used to compute propagation delay on
// full-detail links.
type Location struct {
	X, Y float64
}

// Node is the minimal external collaborator an Interface needs: something
// with a uid, an optional location, and an up/down status. It owns no
// time-based behavior of its own; Interface references it for lookups.
//
// UID is the small integer used throughout trace output and scenario setup;
// ID is a topology-scoped identifier independent of attachment order, handed
// out the way the rest of the module's id-generation surface is split: xid
// for generation-ordered packet ids, uuid for identifiers that name a
// fixed topology element for the life of a run.
type Node struct {
	UID      int
	ID       uuid.UUID
	Location *Location
	down     bool
}

// NewNode creates an up Node with the given uid.
func NewNode(uid int) *Node {
	return &Node{UID: uid, ID: uuid.New()}
}

// Down reports whether the node is currently down.
func (n *Node) Down() bool {
	return n.down
}

// SetDown sets the node's up/down status.
func (n *Node) SetDown(down bool) {
	n.down = down
}
