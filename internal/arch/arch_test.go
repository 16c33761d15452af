package arch

import (
	"testing"

	"sv39kernel/internal/config"
)

func TestPPNPARoundTrip(t *testing.T) {
	pa := uint64(0x8042_3000)
	ppn := PAToPPN(pa)
	if got := ppn.PA(); got != pa {
		t.Fatalf("PA() = %#x, want %#x", got, pa)
	}
}

func TestVPNIndexes(t *testing.T) {
	// VA 0x0000_0041_2345_6000 >> 12 = VPN with known level indexes.
	va := uint64(0x41_2345_6000)
	vpn := VAToVPN(va)
	idx := vpn.Indexes()

	want := [3]uint64{
		(uint64(vpn) >> 18) & 0x1ff,
		(uint64(vpn) >> 9) & 0x1ff,
		uint64(vpn) & 0x1ff,
	}
	if idx != want {
		t.Fatalf("Indexes() = %v, want %v", idx, want)
	}
	if vpn.VA() != va {
		t.Fatalf("VA() = %#x, want %#x", vpn.VA(), va)
	}
}

func TestNextInLevelSaturatesAtTop(t *testing.T) {
	top := VAToVPN(config.VASpaceTop)
	last := top - 1
	next, ok := last.NextInLevel()
	if ok {
		t.Fatalf("expected saturation at the top of the VA space, got ok=true next=%d", next)
	}
	if next != last {
		t.Fatalf("saturated NextInLevel should return the same vpn, got %d want %d", next, last)
	}
}

func TestNextInLevelAdvancesBelowTop(t *testing.T) {
	v := VPN(100)
	next, ok := v.NextInLevel()
	if !ok || next != 101 {
		t.Fatalf("NextInLevel() = (%d, %v), want (101, true)", next, ok)
	}
}

func TestMakePTERoundTrip(t *testing.T) {
	ppn := PPN(0x1234)
	flags := PTE_R | PTE_W | PTE_V
	pte := MakePTE(ppn, flags)

	if pte.PPN() != ppn {
		t.Fatalf("PPN() = %#x, want %#x", pte.PPN(), ppn)
	}
	if pte.Flags() != flags {
		t.Fatalf("Flags() = %#x, want %#x", pte.Flags(), flags)
	}
	if !pte.Valid() {
		t.Fatal("expected PTE_V to make the entry valid")
	}
	if !pte.IsLeaf() {
		t.Fatal("expected R|W to make the entry a leaf")
	}
}

func TestPTENotLeafWithoutRWX(t *testing.T) {
	pte := MakePTE(PPN(1), PTE_V)
	if pte.IsLeaf() {
		t.Fatal("a PTE with only V set must not be a leaf (branch entry)")
	}
}

func TestPermToPTEFlags(t *testing.T) {
	got := (PermR | PermW | PermU).ToPTEFlags()
	want := PTE_R | PTE_W | PTE_U
	if got != want {
		t.Fatalf("ToPTEFlags() = %#x, want %#x", got, want)
	}
	if got&PTE_X != 0 {
		t.Fatal("PermX was not requested, PTE_X must not be set")
	}
}
