// mmaptest exercises sys_mmap/sys_munmap end to end: map a region, touch
// every page of it, then unmap it and exit with a status that encodes
// success/failure for an external harness to check.
package main

import (
	"unsafe"

	"sv39kernel/user/lib"
)

const pageSize = 4096
const regionPages = 4

func main() {
	length := uintptr(regionPages * pageSize)
	addr := lib.Mmap(0, length, lib.ProtRead|lib.ProtWrite)
	if addr < 0 {
		lib.Print("mmaptest: mmap failed\n")
		lib.Exit(1)
	}

	base := (*[regionPages * pageSize]byte)(unsafe.Pointer(uintptr(addr)))
	for i := range base {
		base[i] = byte(i)
	}
	for i := range base {
		if base[i] != byte(i) {
			lib.Print("mmaptest: readback mismatch\n")
			lib.Exit(2)
		}
	}

	if r := lib.Munmap(uintptr(addr), length); r != 0 {
		lib.Print("mmaptest: munmap failed\n")
		lib.Exit(3)
	}

	lib.Print("mmaptest: ok\n")
	lib.Exit(0)
}
