// Package pagetable implements the SV39 three-level page table: walk,
// install, and remove leaf mappings. Ownership follows the
// teacher's discipline of representing page references by integer frame
// number, never by an owning pointer: a PageTable owns the
// branch frames it allocates, but leaf frames belong to the MapRegion that
// requested the mapping.
package pagetable

import (
	"errors"

	"sv39kernel/internal/arch"
	"sv39kernel/internal/mem"
)

// ErrAlreadyMapped is returned by Map when the target leaf is already valid.
var ErrAlreadyMapped = errors.New("pagetable: leaf already mapped")

// ErrHugePageCollision is returned by Map when an intermediate slot is
// already a leaf (there is no huge-page support).
var ErrHugePageCollision = errors.New("pagetable: intermediate slot is a leaf")

// ErrOOM is returned by Map when no branch frame could be allocated.
var ErrOOM = errors.New("pagetable: out of frames")

// ErrNotMapped is returned by Unmap when an intermediate table entry is
// absent.
var ErrNotMapped = errors.New("pagetable: not mapped")

const entriesPerTable = 512

// Table is the in-memory view of one 4 KiB page-table page.
type Table = [entriesPerTable]arch.PTE

// PageAccessor maps a physical frame number to a directly addressable
// *Table. In production this is mem.PageTableView (the kernel's identity
// direct map); tests may substitute an in-memory fake.
type PageAccessor func(arch.PPN) *Table

// PageTable owns one SV39 root page (level 2) plus the branch frames it
// allocates while walking. frames is the source of physical pages; access
// maps a PPN to a directly addressable *Table (the kernel's direct map, or
// a test double).
type PageTable struct {
	Root   arch.PPN
	frames *mem.FrameAllocator
	access PageAccessor
	// branches records every branch frame this table owns, so
	// DeallocIntermediate can free exactly them and nothing else.
	branches map[arch.PPN]bool
}

// New allocates a fresh root table.
func New(frames *mem.FrameAllocator, access PageAccessor) (*PageTable, error) {
	root, ok := frames.Alloc()
	if !ok {
		return nil, ErrOOM
	}
	return &PageTable{
		Root:     root,
		frames:   frames,
		access:   access,
		branches: map[arch.PPN]bool{},
	}, nil
}

// Map walks L2->L1, allocating fresh branch frames where a slot is absent,
// and installs a leaf PTE at L0 with flags|V.
func (pt *PageTable) Map(vpn arch.VPN, ppn arch.PPN, flags arch.PTEFlags) error {
	idx := vpn.Indexes()
	tbl := pt.access(pt.Root)
	for lvl := 0; lvl < 2; lvl++ {
		e := tbl[idx[lvl]]
		if !e.Valid() {
			branch, ok := pt.frames.Alloc()
			if !ok {
				return ErrOOM
			}
			pt.branches[branch] = true
			tbl[idx[lvl]] = arch.MakePTE(branch, arch.PTE_V)
			tbl = pt.access(branch)
			continue
		}
		if e.IsLeaf() {
			return ErrHugePageCollision
		}
		tbl = pt.access(e.PPN())
	}
	leafIdx := idx[2]
	if tbl[leafIdx].Valid() {
		return ErrAlreadyMapped
	}
	tbl[leafIdx] = arch.MakePTE(ppn, flags|arch.PTE_V)
	return nil
}

// walkToLeaf returns the table holding the L0 entry for vpn and the index
// into it, or ok=false if any intermediate entry is absent.
func (pt *PageTable) walkToLeaf(vpn arch.VPN) (tbl *Table, idx uint64, ok bool) {
	indexes := vpn.Indexes()
	tbl = pt.access(pt.Root)
	for lvl := 0; lvl < 2; lvl++ {
		e := tbl[indexes[lvl]]
		if !e.Valid() || e.IsLeaf() {
			return nil, 0, false
		}
		tbl = pt.access(e.PPN())
	}
	return tbl, indexes[2], true
}

// Unmap clears the leaf PTE for vpn and returns the leaf's former PPN. It
// fails if any intermediate table is absent. Branch frames are never freed
// here -- that happens in DeallocIntermediate at teardown.
func (pt *PageTable) Unmap(vpn arch.VPN) (arch.PPN, error) {
	tbl, idx, ok := pt.walkToLeaf(vpn)
	if !ok {
		return 0, ErrNotMapped
	}
	e := tbl[idx]
	if !e.Valid() {
		return 0, ErrNotMapped
	}
	ppn := e.PPN()
	tbl[idx] = 0
	return ppn, nil
}

// Translate walks the table and returns the leaf mapping for vpn, if any.
func (pt *PageTable) Translate(vpn arch.VPN) (ppn arch.PPN, flags arch.PTEFlags, ok bool) {
	tbl, idx, ok := pt.walkToLeaf(vpn)
	if !ok {
		return 0, 0, false
	}
	e := tbl[idx]
	if !e.Valid() {
		return 0, 0, false
	}
	return e.PPN(), e.Flags(), true
}

// DeallocIntermediate performs a recursive post-order walk of every branch
// frame this table allocated, freeing each one, and then frees the root;
// leaf frames are untouched since they are owned by MapRegions, not the
// PageTable.
func (pt *PageTable) DeallocIntermediate() {
	pt.deallocLevel(pt.Root, 2)
	pt.frames.Dealloc(pt.Root)
	delete(pt.branches, pt.Root)
}

func (pt *PageTable) deallocLevel(ppn arch.PPN, lvl int) {
	if lvl == 0 {
		return
	}
	tbl := pt.access(ppn)
	for i := range tbl {
		e := tbl[i]
		if !e.Valid() || e.IsLeaf() {
			continue
		}
		child := e.PPN()
		pt.deallocLevel(child, lvl-1)
		if pt.branches[child] {
			pt.frames.Dealloc(child)
			delete(pt.branches, child)
		}
		tbl[i] = 0
	}
}

// Satp returns the satp CSR value (Sv39 mode, this table's root) to be
// written by AddressSpace.Activate.
func (pt *PageTable) Satp() uint64 {
	const modeSv39 = uint64(8) << 60
	return modeSv39 | uint64(pt.Root)
}
