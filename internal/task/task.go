// Package task implements the task control block, kernel-stack layout,
// ready queue, and round-robin scheduler. Grounded on biscuit's
// tinfo.Tnote_t / Threadinfo_t for the state-and-locking shape (a small
// struct of scheduling state guarded by a mutex, tracked in a
// package-level table), adapted from biscuit's goroutine-per-task model to
// a single-hart cooperative+preemptive kernel-context-switch model.
package task

import (
	"sv39kernel/internal/config"
	"sv39kernel/internal/context"
	"sv39kernel/internal/memset"
	"sv39kernel/internal/trap"
)

// State is a task's scheduling state.
type State int

const (
	Ready State = iota
	Running
	Zombie
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Zombie:
		return "zombie"
	default:
		return "unknown"
	}
}

// Pid identifies a task for the lifetime of the kernel.
type Pid int

// TCB is a task control block: an address space, the physical
// frame backing its trap frame, its kernel-stack range, a saved kernel
// context, scheduling state, and the entry/sp snapshot used only for the
// very first activation.
type TCB struct {
	Pid   Pid
	AS    *memset.AddressSpace
	Trap  *trap.Frame // kernel-VA pointer at config.TrapCtxVA's backing frame
	Ctx   context.KernelContext
	State State

	KStackBottom, KStackTop uint64

	// ExitCode is set by sys_exit and read by the task manager's exit
	// history ring. There is no `wait` syscall, so this is
	// diagnostic-only.
	ExitCode int64
}

// NewTCB builds a task from a parsed ELF image at kernel-stack slot i. It
// takes the TrapFrame's backing PhysFrame that FromELF recorded for
// TRAP_CTX_VA, and initializes both the TrapFrame (for
// first user entry) and the KernelContext (for first kernel-context
// switch).
func NewTCB(pid Pid, elf *memset.FromELFResult, kernelSatp uint64, slot int,
	trampolineRestoreVA, trapHandlerVA uint64) *TCB {

	bottom, top := config.KernelStackBounds(slot)

	t := &TCB{
		Pid:          pid,
		AS:           elf.AS,
		State:        Ready,
		KStackBottom: bottom,
		KStackTop:    top,
	}

	trapPA := elf.TrapCtx.PA()
	t.Trap = (*trap.Frame)(trapFrameAt(trapPA))
	t.Trap.InitUserEntry(elf.Entry, elf.UserSP, kernelSatp, top, trapHandlerVA)

	// The first Switch into this task must resume directly on the
	// trampoline's restore-to-user path, on this task's kernel stack, with
	// a0/a1 preloaded exactly as __restore expects (TRAP_CTX_VA, user
	// satp).
	t.Ctx.InitFirstRun(trampolineRestoreVA, top, config.TrapCtxVA, elf.AS.Token())

	return t
}

// Kill marks the task Zombie with exit code code and releases every frame
// it owned.
func (t *TCB) Kill(code int64) {
	if t.State == Zombie {
		return
	}
	t.State = Zombie
	t.ExitCode = code
	t.AS.Drop()
}
