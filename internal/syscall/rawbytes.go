package syscall

import "unsafe"

// rawBytes views a physical address range as a byte slice through the
// kernel's identity direct map, mirroring mem.PageBytes but for an
// arbitrary (not necessarily page-aligned) length.
func rawBytes(pa, length uint64) []byte {
	p := unsafe.Pointer(uintptr(pa))
	return unsafe.Slice((*byte)(p), length)
}
