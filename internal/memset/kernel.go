package memset

import (
	"sv39kernel/internal/arch"
	"sv39kernel/internal/config"
	"sv39kernel/internal/mem"
)

// KernelSections describes the link-time extent of each kernel ELF
// section, supplied by the linker script via the boot package. Addresses
// are physical == virtual, since the kernel identity-maps itself.
type KernelSections struct {
	TextStart, TextEnd     uint64
	RodataStart, RodataEnd uint64
	DataStart, DataEnd     uint64 // covers .data and .bss
}

// NewKernel builds the kernel's own address space: identity maps of
// .text (R-X), .rodata (R), .data/.bss (RW), the MMIO window (RW), and
// the remaining RAM (RW), plus every task's kernel stack (each followed
// by an unmapped guard page) and the trampoline.
func NewKernel(frames *mem.FrameAllocator, sec KernelSections, numStacks int) (*AddressSpace, error) {
	as, err := NewBare(frames)
	if err != nil {
		return nil, err
	}

	identity := func(lo, hi uint64, perms arch.Perm) error {
		start := arch.VAToVPN(lo)
		end := arch.VAToVPN((hi + uint64(config.PGSIZE) - 1) &^ uint64(config.PGSIZE-1))
		return as.mapRegion(NewIdentical(start, end, perms))
	}

	if err := identity(sec.TextStart, sec.TextEnd, arch.PermR|arch.PermX); err != nil {
		return nil, err
	}
	if err := identity(sec.RodataStart, sec.RodataEnd, arch.PermR); err != nil {
		return nil, err
	}
	if err := identity(sec.DataStart, sec.DataEnd, arch.PermR|arch.PermW); err != nil {
		return nil, err
	}
	if err := identity(config.MMIOStart, config.MMIOEnd, arch.PermR|arch.PermW); err != nil {
		return nil, err
	}
	// Remaining RAM: everything from the end of the kernel image (so
	// including the heap reservation) to the end of physical memory,
	// identity-mapped RW so the kernel can reach every physical frame through
	// its own address space (the frame allocator's heap-backed bitmap, dmap
	// helpers, and page-table walks all rely on this).
	if err := identity(sec.DataEnd, config.MemEnd, arch.PermR|arch.PermW); err != nil {
		return nil, err
	}

	for i := 0; i < numStacks; i++ {
		bottom, top := config.KernelStackBounds(i)
		start := arch.VAToVPN(bottom)
		end := arch.VAToVPN(top)
		// Each kernel stack sits at a high VA just below TrapCtxVA, far
		// outside the "remaining RAM" identity window, and needs its own
		// freshly allocated frames. The guard page beneath `bottom` is
		// deliberately left unmapped.
		if err := as.mapRegion(NewFramed(start, end, arch.PermR|arch.PermW)); err != nil {
			return nil, err
		}
	}

	if err := as.MapTrampoline(); err != nil {
		return nil, err
	}
	return as, nil
}
