package task

import "unsafe"

// trapFrameAt views the physical address pa (identity-mapped into the
// kernel's own address space, like every other direct-map access in this
// kernel -- see mem.PageBytes) as a trap.Frame.
func trapFrameAt(pa uint64) unsafe.Pointer {
	return unsafe.Pointer(uintptr(pa))
}
