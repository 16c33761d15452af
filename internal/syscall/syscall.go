// Package syscall dispatches the six system calls this kernel implements:
// write, exit, yield, gettime, mmap, munmap. Numbers match a
// Linux-compatible subset; handlers follow biscuit's split of recoverable
// errors as negative return values vs. panics for internal invariant
// violations.
package syscall

import (
	"sv39kernel/internal/arch"
	"sv39kernel/internal/config"
	"sv39kernel/internal/console"
	"sv39kernel/internal/memset"
	"sv39kernel/internal/sbi"
	"sv39kernel/internal/task"
	"sv39kernel/internal/trap"
)

const (
	SysWrite   = 64
	SysExit    = 93
	SysYield   = 124
	SysGetTime = 169
	SysMmap    = 222
	SysMunmap  = 215
)

const (
	protRead  = 1
	protWrite = 2
	protExec  = 4

	mapAnonymous = 0x20
)

const (
	stdoutFd = 1

	errEFAULT = -14
	errEINVAL = -22
)

// Dispatch decodes a7/a0..a5 from tf and performs the syscall, storing the
// return value into tf's a0 slot. mgr is the task manager, used for the current task's address
// space and for yield/exit's scheduling half.
func Dispatch(tf *trap.Frame, mgr *task.Manager) {
	id, args := tf.SyscallArgs()
	var ret int64
	switch id {
	case SysWrite:
		ret = sysWrite(mgr, args[0], args[1], args[2])
	case SysExit:
		sysExit(mgr, int64(args[0]))
		return // a new task is already running, or none is left and the caller shuts down
	case SysYield:
		sysYield(mgr)
		ret = 0
	case SysGetTime:
		ret = int64(arch.ReadTime())
	case SysMmap:
		ret = sysMmap(mgr, args[0], args[1], args[2], args[3], args[4], args[5])
	case SysMunmap:
		ret = sysMunmap(mgr, args[0], args[1])
	default:
		console.Warn("unknown syscall %d", id)
		ret = errEINVAL
	}
	tf.SetReturn(ret)
}

func currentAS(mgr *task.Manager) *memset.AddressSpace {
	t, ok := mgr.Current()
	if !ok {
		panic("syscall: no current task")
	}
	return t.AS
}

// sysWrite translates the user buffer through the caller's page table
// page by page and emits each slice via the SBI console.
func sysWrite(mgr *task.Manager, fd, buf, length uint64) int64 {
	if fd != stdoutFd {
		return errEINVAL
	}
	as := currentAS(mgr)
	remaining := length
	addr := buf
	written := uint64(0)
	for remaining > 0 {
		pa, _, ok := as.Translate(addr)
		if !ok {
			return errEFAULT
		}
		pageOff := addr & config.PGMASK
		chunk := uint64(config.PGSIZE) - pageOff
		if chunk > remaining {
			chunk = remaining
		}
		slice := physSlice(pa, chunk)
		n, _ := sbi.ConsoleWrite(slice)
		written += uint64(n)
		addr += chunk
		remaining -= chunk
	}
	return int64(written)
}

func sysExit(mgr *task.Manager, code int64) {
	t, ok := mgr.Current()
	if !ok {
		panic("syscall: exit with no current task")
	}
	t.Kill(code)
	// On ErrShutdown no task is current any more; the trap path that called
	// Dispatch sees that, dumps the exit history and shuts down.
	_ = mgr.Exit()
}

func sysYield(mgr *task.Manager) {
	_ = mgr.Yield() // a ready queue always has >=1 entry: the caller itself
}

// sysMmap creates one Framed MapRegion in the caller's address space and
// returns its start VA. flags must include MAP_ANONYMOUS --
// file-backed mmap is out of scope (there is no filesystem).
func sysMmap(mgr *task.Manager, addr, length, prot, flags, fd, off uint64) int64 {
	if flags&mapAnonymous == 0 {
		return errEINVAL
	}
	pageLen := (length + uint64(config.PGSIZE) - 1) &^ uint64(config.PGSIZE-1)
	if pageLen == 0 {
		return errEINVAL
	}

	as := currentAS(mgr)
	perms := arch.PermU
	if prot&protRead != 0 {
		perms |= arch.PermR
	}
	if prot&protWrite != 0 {
		perms |= arch.PermW
	}
	if prot&protExec != 0 {
		perms |= arch.PermX
	}

	// addr is a placement hint, not a requirement: an aligned, free addr
	// is honored as-is, otherwise the kernel picks a free range itself.
	startVA := as.FindFreeRangeFrom(addr, pageLen)
	startVPN := arch.VAToVPN(startVA)
	endVPN := arch.VAToVPN(startVA + pageLen)
	region := memset.NewFramed(startVPN, endVPN, perms)
	if err := as.InstallRegion(region); err != nil {
		return -1
	}
	return int64(startVA)
}

// sysMunmap removes a region that exactly matches [addr, addr+length);
// partial unmap is refused.
func sysMunmap(mgr *task.Manager, addr, length uint64) int64 {
	if addr&config.PGMASK != 0 {
		return errEINVAL
	}
	pageLen := (length + uint64(config.PGSIZE) - 1) &^ uint64(config.PGSIZE-1)
	as := currentAS(mgr)
	startVPN := arch.VAToVPN(addr)
	endVPN := arch.VAToVPN(addr + pageLen)
	if !as.RemoveExactRegion(startVPN, endVPN) {
		return errEINVAL
	}
	return 0
}

// physSlice views a physical range as a byte slice via the kernel's
// identity direct map (see mem.PageBytes; duplicated here at the byte
// level to avoid importing mem's frame-granular helper for a sub-page
// length).
func physSlice(pa, length uint64) []byte {
	return rawBytes(pa, length)
}
