package mem

import (
	"fmt"
	"sync"
	"unsafe"
)

// heapMinOrder is the smallest block size the buddy allocator hands out,
// 2^heapMinOrder bytes.
const heapMinOrder = 6 // 64 bytes

// KernelHeap is a buddy allocator over a statically reserved
// [base, base+size) window, built first during boot so it is available to
// back the frame allocator's own bitmap storage (see AllocWords) before
// the frame allocator exists to back anything else. Allocation failure is
// fatal, matching biscuit's discipline of panicking on internal OOM
// rather than returning an error the kernel init path would have to
// unwind.
type KernelHeap struct {
	mu       sync.Mutex
	base     uintptr
	maxOrder uint
	free     [][]uintptr // free[order] = list of block base offsets
}

// NewKernelHeap reserves a buddy heap of size bytes (rounded down to a
// power of two) starting at base.
func NewKernelHeap(base uintptr, size uintptr) *KernelHeap {
	order := heapMinOrder
	for uintptr(1)<<(order+1) <= size {
		order++
	}
	h := &KernelHeap{
		base:     base,
		maxOrder: uint(order),
		free:     make([][]uintptr, order+1),
	}
	h.free[order] = append(h.free[order], 0)
	return h
}

func orderFor(size uintptr) uint {
	order := uint(heapMinOrder)
	need := uintptr(1) << order
	for need < size {
		order++
		need <<= 1
	}
	return order
}

// Alloc returns the address of a block of at least size bytes. The block's
// contents are not cleared (AllocWords clears what it hands out).
// Allocation failure is fatal.
func (h *KernelHeap) Alloc(size uintptr) uintptr {
	if size == 0 {
		size = 1
	}
	order := orderFor(size)
	h.mu.Lock()
	defer h.mu.Unlock()

	o, ok := h.smallestFreeAtOrGreater(order)
	if !ok {
		panic(fmt.Sprintf("kernel heap exhausted: no free block >= order %d", order))
	}
	// split down from o to order
	off := h.popFree(o)
	for cur := o; cur > order; cur-- {
		buddyOff := off + (uintptr(1) << (cur - 1))
		h.free[cur-1] = append(h.free[cur-1], buddyOff)
	}
	return h.base + off
}

// Free returns a block previously returned by Alloc, of the given size.
func (h *KernelHeap) Free(ptr uintptr, size uintptr) {
	order := orderFor(size)
	off := ptr - h.base
	h.mu.Lock()
	defer h.mu.Unlock()
	for cur := order; cur < h.maxOrder; cur++ {
		buddy := off ^ (uintptr(1) << cur)
		if !h.removeFree(cur, buddy) {
			h.free[cur] = append(h.free[cur], off)
			return
		}
		// merged with buddy; continue coalescing at the next order up
		if buddy < off {
			off = buddy
		}
	}
	h.free[h.maxOrder] = append(h.free[h.maxOrder], off)
}

// AllocWords carves n uint64 words out of h and returns them as a slice,
// used to back the frame allocator's bitmap so its bookkeeping storage
// comes from this heap rather than the Go runtime's own allocator.
func (h *KernelHeap) AllocWords(n uintptr) []uint64 {
	ptr := h.Alloc(n * 8)
	words := unsafe.Slice((*uint64)(unsafe.Pointer(ptr)), int(n))
	for i := range words {
		words[i] = 0
	}
	return words
}

func (h *KernelHeap) smallestFreeAtOrGreater(order uint) (uint, bool) {
	for o := order; o <= h.maxOrder; o++ {
		if len(h.free[o]) > 0 {
			return o, true
		}
	}
	return 0, false
}

func (h *KernelHeap) popFree(order uint) uintptr {
	n := len(h.free[order])
	v := h.free[order][n-1]
	h.free[order] = h.free[order][:n-1]
	return v
}

func (h *KernelHeap) removeFree(order uint, off uintptr) bool {
	list := h.free[order]
	for i, v := range list {
		if v == off {
			h.free[order] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}
