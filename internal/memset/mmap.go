package memset

import (
	"sv39kernel/internal/arch"
	"sv39kernel/internal/config"
)

// mmapSearchBase is where sys_mmap starts looking for unused VA space --
// well below the user stack and trap/trampoline pages, high enough to
// never collide with a typical small PT_LOAD image.
const mmapSearchBase = uint64(0x1_0000_0000)

// FindFreeRange returns a page-aligned VA such that [va, va+length) does
// not overlap any existing region, scanning upward from mmapSearchBase in
// length-sized strides.
func (as *AddressSpace) FindFreeRange(length uint64) uint64 {
	return as.FindFreeRangeFrom(0, length)
}

// FindFreeRangeFrom is FindFreeRange but tries hint first: if hint is
// page-aligned and [hint, hint+length) is free, it is returned as-is,
// matching sys_mmap's addr argument when the caller supplies a nonzero
// hint instead of leaving placement entirely up to the kernel. A hint of
// zero, or one that doesn't fit, falls back to scanning from
// mmapSearchBase.
func (as *AddressSpace) FindFreeRangeFrom(hint, length uint64) uint64 {
	pages := length / uint64(config.PGSIZE)
	if hint != 0 && hint&config.PGMASK == 0 {
		hintVPN := arch.VAToVPN(hint)
		if !as.overlapsAny(hintVPN, hintVPN+arch.VPN(pages)) {
			return hint
		}
	}
	candidate := arch.VAToVPN(mmapSearchBase)
	for {
		end := candidate + arch.VPN(pages)
		if !as.overlapsAny(candidate, end) {
			return candidate.VA()
		}
		candidate = end
	}
}

func (as *AddressSpace) overlapsAny(start, end arch.VPN) bool {
	for _, r := range as.Regions {
		if start < r.End && r.Start < end {
			return true
		}
	}
	return false
}

// InstallRegion allocates fresh frames for every page of r and maps them
// into the page table, appending r to Regions.
func (as *AddressSpace) InstallRegion(r *MapRegion) error {
	return as.mapRegion(r)
}

// RemoveExactRegion removes and drops the region whose range exactly
// matches [start, end); returns false (refusing a partial unmap) if no
// such region exists.
func (as *AddressSpace) RemoveExactRegion(start, end arch.VPN) bool {
	for i, r := range as.Regions {
		if r.Start != start || r.End != end {
			continue
		}
		for vpn, ppn := range r.Frames {
			if _, err := as.PT.Unmap(vpn); err != nil {
				panic("memset: munmap of a mapped region failed to unmap a page")
			}
			as.frames.Dealloc(ppn)
		}
		fenceVMA()
		as.Regions = append(as.Regions[:i], as.Regions[i+1:]...)
		return true
	}
	return false
}
