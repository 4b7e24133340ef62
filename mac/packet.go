package mac

import "github.com/netsim-core/ethermac/sim"

// Packet is the opaque payload the MAC carries. Higher layers fill in Size,
// Src, Dst, and Tags; the MAC owns RetxCount from the point Send is called
// until the packet is delivered or dropped.
type Packet struct {
	ID  string
	Size int
	// RetxCount counts retransmit attempts. It may only be incremented by
	// the owning Interface's retransmit path, and is reset to 0 whenever a
	// fresh higher-layer Send begins.
	RetxCount int
	Src, Dst  Address
	// Tags is an opaque protocol-layer tag stack; the MAC never inspects it.
	Tags []string
}

// NewPacket creates a Packet ready for a fresh Send: RetxCount starts at 0
// and a new id is drawn from the shared id generator.
func NewPacket(size int, src, dst Address, tags ...string) *Packet {
	return &Packet{
		ID:   sim.GetIDGenerator().Generate(),
		Size: size,
		Src:  src,
		Dst:  dst,
		Tags: append([]string(nil), tags...),
	}
}

// Clone returns a copy of p with a fresh id, the way a bus delivers an
// independent PDU copy to each peer interface without sharing mutable
// state with the sender's in-flight packet.
func (p *Packet) Clone() *Packet {
	clone := *p
	clone.ID = sim.GetIDGenerator().Generate()
	clone.Tags = append([]string(nil), p.Tags...)
	return &clone
}
