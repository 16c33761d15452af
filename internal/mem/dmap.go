package mem

import (
	"unsafe"

	"sv39kernel/internal/arch"
)

// PageBytes returns a byte slice over the frame at ppn. The kernel's own
// address space identity-maps physical RAM from the kernel image to the end
// of memory, so a physical frame number doubles as a valid kernel virtual
// address once paging is active -- and, before paging is active during
// boot, as the raw physical address. This mirrors biscuit's Dmap, which
// likewise converts a PPN into a directly addressable page without going
// through a process's own page table.
func PageBytes(ppn arch.PPN) []byte {
	pa := ppn.PA()
	p := unsafe.Pointer(uintptr(pa))
	return unsafe.Slice((*byte)(p), 4096)
}

// PageTableView returns the frame at ppn viewed as a page-table page (512
// 64-bit entries), for use as a pagetable.PageAccessor.
func PageTableView(ppn arch.PPN) *[512]arch.PTE {
	pa := ppn.PA()
	return (*[512]arch.PTE)(unsafe.Pointer(uintptr(pa)))
}

// ZeroFrame clears a frame to all zeroes. Passed to FrameAllocator as its
// zero callback so every allocation returns a clean page.
func ZeroFrame(ppn arch.PPN) {
	b := PageBytes(ppn)
	for i := range b {
		b[i] = 0
	}
}
