// Package mac implements the Ethernet CSMA/CD medium-access-control state
// machine: per-interface carrier sense, collision detection, binary
// exponential backoff, and bounded retransmission, running over a shared
// Link and driven entirely by github.com/netsim-core/ethermac/sim.
package mac

// Bit-time constants. Each is expressed in bit-times; divide by a Link's
// bandwidth (bits/sec) to get seconds.
const (
	InitialBackoff = 1
	SlotTime       = 512
	BackoffLimit   = 1024
	AttemptLimit   = 16
	JamTime        = 32
	InterFrameGap  = 96
)

// SpeedOfLight is used to compute propagation delay on full-detail links.
const SpeedOfLight = 299792458 // m/s
