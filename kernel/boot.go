package kernel

import (
	"unsafe"

	"sv39kernel/internal/memset"
)

// linkerSections reads kernel.ld's section boundary symbols out of the
// running image, the one piece of KernelSections that genuinely depends
// on where the linker placed things.
func linkerSections() memset.KernelSections {
	return memset.KernelSections{
		TextStart:   linkTextStart(),
		TextEnd:     linkTextEnd(),
		RodataStart: linkRodataStart(),
		RodataEnd:   linkRodataEnd(),
		DataStart:   linkDataStart(),
		DataEnd:     linkBssEnd(),
	}
}

// unsafePointerFromVA reinterprets a kernel virtual address as a pointer.
// Valid only while the kernel address space is active and tfVA is mapped,
// which holds for every call site in this package (the TrapFrame VA
// trapGoEntry receives is always config.TrapCtxVA, §4.4).
func unsafePointerFromVA(va uintptr) unsafe.Pointer {
	return unsafe.Pointer(va)
}
