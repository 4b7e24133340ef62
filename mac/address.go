package mac

import "fmt"

// Address is a 6-byte Ethernet MAC address.
type Address [6]byte

// Broadcast is the all-ones address: every attached Interface accepts a
// packet addressed to it.
var Broadcast = Address{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// IsBroadcast reports whether a equals Broadcast.
func (a Address) IsBroadcast() bool {
	return a == Broadcast
}

// String renders the address in the usual colon-separated hex form.
func (a Address) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		a[0], a[1], a[2], a[3], a[4], a[5])
}

// AddressFromUint64 derives a deterministic, non-broadcast address from a
// small integer; used by tests and scenario builders that want readable,
// reproducible addresses instead of random ones.
func AddressFromUint64(n uint64) Address {
	var a Address
	for i := 5; i >= 0; i-- {
		a[i] = byte(n)
		n >>= 8
	}
	if a.IsBroadcast() {
		a[5] ^= 0x01
	}
	return a
}
