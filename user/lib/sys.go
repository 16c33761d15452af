// Package lib is the user-mode syscall runtime every app in user/ links
// against: six raw `ecall` wrappers matching internal/syscall's dispatch
// table one for one. There is no libc and no Go runtime
// syscall layer underneath these processes -- like biscuit's own modified
// userland, a user binary here talks straight to the kernel's ecall ABI.
package lib

import "unsafe"

func ptr(p []byte) unsafe.Pointer {
	if len(p) == 0 {
		return nil
	}
	return unsafe.Pointer(&p[0])
}

const (
	sysWrite   = 64
	sysExit    = 93
	sysYield   = 124
	sysGetTime = 169
	sysMmap    = 222
	sysMunmap  = 215
)

const (
	ProtRead  = 1
	ProtWrite = 2
	ProtExec  = 4

	MapAnonymous = 0x20
)

// Write writes len(p) bytes of p to fd, returning the number of bytes
// written or a negative errno.
func Write(fd int, p []byte) int64 {
	if len(p) == 0 {
		return 0
	}
	return ecall6(sysWrite, uint64(fd), uint64(uintptr(ptr(p))), uint64(len(p)), 0, 0, 0)
}

// Print writes s to stdout, ignoring any error.
func Print(s string) {
	Write(1, []byte(s))
}

// Exit terminates the calling task with the given exit code. It never
// returns.
func Exit(code int64) {
	ecall6(sysExit, uint64(code), 0, 0, 0, 0, 0)
	for {
	}
}

// Yield gives up the remainder of the current time slice.
func Yield() {
	ecall6(sysYield, 0, 0, 0, 0, 0, 0)
}

// GetTime reads the `time` CSR's value as the kernel sees it.
func GetTime() uint64 {
	return uint64(ecall6(sysGetTime, 0, 0, 0, 0, 0, 0))
}

// Mmap requests length bytes of anonymous memory with the given
// protection, returning the mapped address or a negative errno. addr is a
// placement hint: the kernel uses it when it is page-aligned and the range
// is free, and otherwise picks the placement itself.
func Mmap(addr, length uintptr, prot int) int64 {
	return ecall6(sysMmap, uint64(addr), uint64(length), uint64(prot), MapAnonymous, ^uint64(0), 0)
}

// Munmap releases a mapping created by Mmap. Partial unmap of a region is
// refused by the kernel.
func Munmap(addr, length uintptr) int64 {
	return ecall6(sysMunmap, uint64(addr), uint64(length), 0, 0, 0, 0)
}
