// Package memset implements the memory set / AddressSpace abstraction: a
// page-table root plus an ordered list of mapped regions. Grounded on
// biscuit's vm.Vm_t / vm.Vmregion_t, adapted from biscuit's x86
// COW-anonymous/file region model to a simpler Identical vs. Framed kind
// distinction (no demand paging, no COW).
package memset

import (
	"sv39kernel/internal/arch"
)

// Kind distinguishes how a region's VPNs are backed.
type Kind int

const (
	// Identical maps VPN == PPN (kernel sections, MMIO).
	Identical Kind = iota
	// Framed maps each VPN to a freshly allocated, region-owned frame.
	Framed
)

// MapRegion is a contiguous VPN range with a kind, a permission set, and
// (for Framed regions) the frames backing it.
type MapRegion struct {
	Kind  Kind
	Start arch.VPN // inclusive
	End   arch.VPN // exclusive
	Perms arch.Perm

	// Frames maps VPN -> backing PPN for Framed regions; nil for Identical.
	Frames map[arch.VPN]arch.PPN

	// ActualStartVA preserves the sub-page byte offset of the original
	// (possibly unaligned) request, so ELF segment copies land at the
	// right byte within the first page.
	ActualStartVA uint64
}

// NewIdentical creates an Identical region over [start, end).
func NewIdentical(start, end arch.VPN, perms arch.Perm) *MapRegion {
	return &MapRegion{Kind: Identical, Start: start, End: end, Perms: perms}
}

// NewFramed creates an empty Framed region over [start, end); callers
// populate Frames as they allocate and install each page.
func NewFramed(start, end arch.VPN, perms arch.Perm) *MapRegion {
	return &MapRegion{
		Kind:   Framed,
		Start:  start,
		End:    end,
		Perms:  perms,
		Frames: make(map[arch.VPN]arch.PPN, int(end-start)),
	}
}

// Contains reports whether vpn falls within this region's range.
func (r *MapRegion) Contains(vpn arch.VPN) bool {
	return vpn >= r.Start && vpn < r.End
}

// Len returns the number of pages in the region.
func (r *MapRegion) Len() int { return int(r.End - r.Start) }

// PPNFor returns the frame backing vpn in a Framed region, or the identity
// PPN for an Identical region. It panics if vpn is out of range -- callers
// must check Contains first (mirrors biscuit's "caller holds the lock and
// has already looked up the region" discipline).
func (r *MapRegion) PPNFor(vpn arch.VPN) arch.PPN {
	if !r.Contains(vpn) {
		panic("memset: vpn out of region range")
	}
	if r.Kind == Identical {
		return arch.PPN(vpn)
	}
	ppn, ok := r.Frames[vpn]
	if !ok {
		panic("memset: framed region missing a page within its own range")
	}
	return ppn
}
