// Package config holds the fixed QEMU virt memory map and kernel layout
// constants. Like biscuit's mem package, the layout is build-time constant,
// not parsed from a device tree.
package config

const (
	// PGSHIFT is the base-2 exponent of the page size.
	PGSHIFT uint = 12
	// PGSIZE is the size in bytes of one page.
	PGSIZE int = 1 << PGSHIFT
	// PGMASK masks the in-page offset of an address.
	PGMASK uint64 = uint64(PGSIZE) - 1

	// RAM layout of QEMU's virt machine, fixed.
	MemStart uint64 = 0x8000_0000
	MemSize  uint64 = 128 * 1024 * 1024
	MemEnd   uint64 = MemStart + MemSize

	// KernelLoadAddr is where the bootloader stub jumps into the kernel image.
	KernelLoadAddr uint64 = 0x8020_0000

	// Kernel heap window, reserved ahead of the frame allocator's range.
	HeapStart uint64 = 0x8042_0000
	HeapSize  uint64 = 8 * 1024 * 1024
	HeapEnd   uint64 = HeapStart + HeapSize

	// MMIO window identity-mapped RW into the kernel address space.
	MMIOStart uint64 = 0x0200_0000
	MMIOEnd   uint64 = 0x1000_0000

	// VASpaceTop is the top of the 39-bit (sign-extended) user/kernel VA
	// space, 2^38; the final page below it is the trampoline.
	VASpaceTop uint64 = 1 << 38

	// TrampolineVA is the highest page of the address space, mapped R-X at
	// the same VA and same physical frame in every address space.
	TrampolineVA uint64 = VASpaceTop - uint64(PGSIZE)

	// TrapCtxVA is the per-task trap-frame page, one page below the
	// trampoline; backed by a different physical frame per task.
	TrapCtxVA uint64 = TrampolineVA - uint64(PGSIZE)

	// UserStackSize is the size of each task's user stack.
	UserStackSize uint64 = 4 * uint64(PGSIZE)

	// KernelStackSize is the size of each task's kernel stack (excludes the
	// guard page that follows it).
	KernelStackSize uint64 = 4 * uint64(PGSIZE)

	// CLOCKFREQ is QEMU virt's fixed timer frequency (10 MHz). The timer is
	// re-armed every tick at CLOCKFREQ/100 (10ms).
	CLOCKFREQ    uint64 = 10_000_000
	TicksPerSlice uint64 = CLOCKFREQ / 100

	// MaxTasks bounds the statically sized kernel-stack layout; kernel stack
	// i occupies [TrapCtxVA - (i+1)*(KernelStackSize+PGSIZE), ...).
	MaxTasks = 16
)

// KernelStackBounds returns the [bottom, top) VA range of kernel stack i,
// descending below TrapCtxVA with a guard page following each stack (§4.6).
func KernelStackBounds(i int) (bottom, top uint64) {
	top = TrapCtxVA - uint64(PGSIZE) - uint64(i)*(KernelStackSize+uint64(PGSIZE))
	bottom = top - KernelStackSize
	return
}
