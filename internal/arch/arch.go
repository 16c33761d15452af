// Package arch defines the SV39 address types and page-table-entry bit
// layout shared by the page table, memory-set, and trap packages. Naming
// follows biscuit's convention of dedicated physical/virtual address types
// (Pa_t, Pg_t) rather than bare uint64/uintptr.
package arch

import "sv39kernel/internal/config"

// PPN is a physical page number: a 44-bit index of a 4 KiB aligned frame.
type PPN uint64

// PA converts a PPN to its physical address.
func (p PPN) PA() uint64 { return uint64(p) << config.PGSHIFT }

// PAToPPN truncates a physical address down to its containing frame number.
func PAToPPN(pa uint64) PPN { return PPN(pa >> config.PGSHIFT) }

// VPN is a virtual page number: the 27-bit (39-bit VA) SV39 page index,
// split into three 9-bit level indexes [L2, L1, L0].
type VPN uint64

// VA converts a VPN to its virtual address.
func (v VPN) VA() uint64 { return uint64(v) << config.PGSHIFT }

// VAToVPN truncates a virtual address down to its containing page.
func VAToVPN(va uint64) VPN { return VPN(va >> config.PGSHIFT) }

// Indexes returns the three 9-bit SV39 level indexes [L2, L1, L0] for vpn.
func (v VPN) Indexes() [3]uint64 {
	x := uint64(v)
	return [3]uint64{
		(x >> 18) & 0x1ff,
		(x >> 9) & 0x1ff,
		x & 0x1ff,
	}
}

// NextInLevel advances vpn by one page, saturating instead of overflowing
// past the top of the 39-bit VA space (the trampoline occupies the final
// page, so vpn+1 at that boundary must not wrap).
func (v VPN) NextInLevel() (VPN, bool) {
	top := VAToVPN(config.VASpaceTop)
	if v+1 >= top {
		return v, false
	}
	return v + 1, true
}

// PTEFlags are the low 8 bits of a page-table entry.
type PTEFlags uint64

const (
	PTE_V PTEFlags = 1 << 0 // valid
	PTE_R PTEFlags = 1 << 1 // readable
	PTE_W PTEFlags = 1 << 2 // writable
	PTE_X PTEFlags = 1 << 3 // executable
	PTE_U PTEFlags = 1 << 4 // user-accessible
	PTE_G PTEFlags = 1 << 5 // global
	PTE_A PTEFlags = 1 << 6 // accessed
	PTE_D PTEFlags = 1 << 7 // dirty

	pteFlagMask PTEFlags = 0xff
	ppnShift             = 10
)

// IsLeaf reports whether flags describes a leaf PTE: any of R/W/X set.
func (f PTEFlags) IsLeaf() bool {
	return f&(PTE_R|PTE_W|PTE_X) != 0
}

// PTE is one 64-bit SV39 page-table entry.
type PTE uint64

// MakePTE packs ppn and flags into a page-table entry.
func MakePTE(ppn PPN, flags PTEFlags) PTE {
	return PTE(uint64(ppn)<<ppnShift | uint64(flags&pteFlagMask))
}

// Flags returns the flag bits of the entry.
func (e PTE) Flags() PTEFlags { return PTEFlags(uint64(e) & uint64(pteFlagMask)) }

// PPN returns the physical page number encoded in the entry.
func (e PTE) PPN() PPN { return PPN(uint64(e) >> ppnShift) }

// Valid reports whether the V bit is set.
func (e PTE) Valid() bool { return e.Flags()&PTE_V != 0 }

// IsLeaf reports whether the entry is a leaf (any of R/W/X set).
func (e PTE) IsLeaf() bool { return e.Flags().IsLeaf() }

// Perm is the subset of PTE flags a caller may request for a mapping:
// R, W, X, U. It is distinct from PTEFlags so that callers cannot
// accidentally set V/G/A/D directly.
type Perm uint8

const (
	PermR Perm = 1 << 0
	PermW Perm = 1 << 1
	PermX Perm = 1 << 2
	PermU Perm = 1 << 3
)

// ToPTEFlags converts a requested permission set into PTE flag bits
// (without the V bit, which map() adds once the leaf is installed).
func (p Perm) ToPTEFlags() PTEFlags {
	var f PTEFlags
	if p&PermR != 0 {
		f |= PTE_R
	}
	if p&PermW != 0 {
		f |= PTE_W
	}
	if p&PermX != 0 {
		f |= PTE_X
	}
	if p&PermU != 0 {
		f |= PTE_U
	}
	return f
}
