package maple_test

import (
	"testing"

	"github.com/washgo/washcore/maple"
)

func TestPackUnpackAddrRoundTrip(t *testing.T) {
	for port := 0; port < 4; port++ {
		for unit := 0; unit < 6; unit++ {
			addr := maple.PackAddr(port, unit)
			gotPort, gotUnit := maple.UnpackAddr(addr)
			if gotPort != port || gotUnit != unit {
				t.Fatalf("PackAddr(%d,%d)=%#02x -> UnpackAddr = (%d,%d)", port, unit, addr, gotPort, gotUnit)
			}
		}
	}
}

func TestUnpackAddrRejectsGarbageBits(t *testing.T) {
	_, unit := maple.UnpackAddr(0x3f) // every low bit set -- no single unit
	if unit != -1 {
		t.Fatalf("got unit=%d, want -1 for an unrecognised bit pattern", unit)
	}
}
