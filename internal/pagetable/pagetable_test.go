package pagetable

import (
	"testing"

	"sv39kernel/internal/arch"
	"sv39kernel/internal/mem"
)

// fakeMemory backs PageAccessor with plain Go maps instead of the kernel's
// direct-mapped physical memory, so the walk logic is exercised without any
// unsafe pointer arithmetic over fabricated addresses.
type fakeMemory struct {
	pages map[arch.PPN]*Table
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{pages: map[arch.PPN]*Table{}}
}

func (m *fakeMemory) access(ppn arch.PPN) *Table {
	t, ok := m.pages[ppn]
	if !ok {
		t = &Table{}
		m.pages[ppn] = t
	}
	return t
}

func newTestTable(t *testing.T) (*PageTable, *mem.FrameAllocator) {
	t.Helper()
	frames := mem.NewFrameAllocator(arch.PPN(1), arch.PPN(256), nil, nil)
	fm := newFakeMemory()
	pt, err := New(frames, fm.access)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return pt, frames
}

func TestMapThenTranslate(t *testing.T) {
	pt, _ := newTestTable(t)
	vpn := arch.VAToVPN(0x1_2345_0000)
	leaf := arch.PPN(50)

	if err := pt.Map(vpn, leaf, arch.PTE_R|arch.PTE_W); err != nil {
		t.Fatalf("Map: %v", err)
	}
	ppn, flags, ok := pt.Translate(vpn)
	if !ok {
		t.Fatal("Translate: expected a mapping")
	}
	if ppn != leaf {
		t.Fatalf("Translate ppn = %d, want %d", ppn, leaf)
	}
	if flags&arch.PTE_R == 0 || flags&arch.PTE_W == 0 {
		t.Fatalf("Translate flags = %#x, missing R/W", flags)
	}
}

func TestMapAlreadyMapped(t *testing.T) {
	pt, _ := newTestTable(t)
	vpn := arch.VAToVPN(0x2000)
	if err := pt.Map(vpn, arch.PPN(10), arch.PTE_R); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := pt.Map(vpn, arch.PPN(11), arch.PTE_R); err != ErrAlreadyMapped {
		t.Fatalf("second Map err = %v, want ErrAlreadyMapped", err)
	}
}

func TestTranslateUnmappedFails(t *testing.T) {
	pt, _ := newTestTable(t)
	if _, _, ok := pt.Translate(arch.VAToVPN(0x9000)); ok {
		t.Fatal("expected Translate to fail for an unmapped vpn")
	}
}

func TestUnmapReturnsLeafPPN(t *testing.T) {
	pt, _ := newTestTable(t)
	vpn := arch.VAToVPN(0x3000)
	leaf := arch.PPN(77)
	if err := pt.Map(vpn, leaf, arch.PTE_R); err != nil {
		t.Fatalf("Map: %v", err)
	}
	got, err := pt.Unmap(vpn)
	if err != nil {
		t.Fatalf("Unmap: %v", err)
	}
	if got != leaf {
		t.Fatalf("Unmap returned %d, want %d", got, leaf)
	}
	if _, _, ok := pt.Translate(vpn); ok {
		t.Fatal("expected vpn to be unmapped after Unmap")
	}
}

func TestUnmapNotMapped(t *testing.T) {
	pt, _ := newTestTable(t)
	if _, err := pt.Unmap(arch.VAToVPN(0x4000)); err != ErrNotMapped {
		t.Fatalf("Unmap err = %v, want ErrNotMapped", err)
	}
}

func TestMapTwoLeavesShareBranches(t *testing.T) {
	pt, _ := newTestTable(t)
	base := uint64(0x10_0000)
	vpnA := arch.VAToVPN(base)
	vpnB := arch.VAToVPN(base + 4096) // same L2/L1 branch, different L0 slot

	if err := pt.Map(vpnA, arch.PPN(20), arch.PTE_R); err != nil {
		t.Fatalf("Map a: %v", err)
	}
	if err := pt.Map(vpnB, arch.PPN(21), arch.PTE_R); err != nil {
		t.Fatalf("Map b: %v", err)
	}
	if ppn, _, ok := pt.Translate(vpnA); !ok || ppn != 20 {
		t.Fatalf("Translate a = (%d, %v), want (20, true)", ppn, ok)
	}
	if ppn, _, ok := pt.Translate(vpnB); !ok || ppn != 21 {
		t.Fatalf("Translate b = (%d, %v), want (21, true)", ppn, ok)
	}
}

func TestDeallocIntermediateFreesBranchesNotLeaves(t *testing.T) {
	pt, frames := newTestTable(t)
	before := frames.FreeCount()

	vpn := arch.VAToVPN(0x20_0000)
	leaf := arch.PPN(99)
	if err := pt.Map(vpn, leaf, arch.PTE_R); err != nil {
		t.Fatalf("Map: %v", err)
	}
	afterMap := frames.FreeCount()
	if afterMap >= before {
		t.Fatalf("expected Map to consume frames for branch tables, free went %d -> %d", before, afterMap)
	}

	// before was taken after New allocated the root; DeallocIntermediate
	// frees the root as well, so one more frame is free than before.
	pt.DeallocIntermediate()
	afterDealloc := frames.FreeCount()
	if afterDealloc != before+1 {
		t.Fatalf("DeallocIntermediate did not return all branch frames and the root: before=%d after=%d", before, afterDealloc)
	}
}

func TestSatpEncodesSv39Mode(t *testing.T) {
	pt, _ := newTestTable(t)
	satp := pt.Satp()
	if satp>>60 != 8 {
		t.Fatalf("Satp() mode field = %d, want 8 (Sv39)", satp>>60)
	}
	if arch.PPN(satp&((1<<44)-1)) != pt.Root {
		t.Fatalf("Satp() PPN field = %d, want root %d", satp&((1<<44)-1), pt.Root)
	}
}
