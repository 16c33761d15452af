// Package traphandler implements the kernel-side half of trap dispatch:
// decoding scause, routing to the syscall/timer/fault paths, and
// re-arming the timer. The assembly half (saving/restoring state
// across the user/kernel boundary) lives in kernel/asm; by the time
// Handle runs, the CPU is already in the kernel address space on the
// current task's kernel stack, per the trampoline's contract.
package traphandler

import (
	"sv39kernel/internal/arch"
	"sv39kernel/internal/config"
	"sv39kernel/internal/console"
	"sv39kernel/internal/diag/disasm"
	"sv39kernel/internal/mem"
	"sv39kernel/internal/sbi"
	"sv39kernel/internal/syscall"
	"sv39kernel/internal/task"
	"sv39kernel/internal/trap"
)

// userFaultExitCode is the exit code a task is killed with when the trap
// handler terminates it for a page/access/illegal-instruction fault.
const userFaultExitCode = -1

// Handle dispatches on scause: syscall, timer interrupt, or fault (stval
// is only logged). tf is the current task's TrapFrame (a0 on
// entry, per the trampoline contract); mgr is the task manager.
func Handle(tf *trap.Frame, scause trap.Cause, stval uint64, mgr *task.Manager) {
	fromUser := tf.FromUser()

	switch {
	case scause == trap.CauseUserEnvCall:
		if !fromUser {
			console.Panicf("UserEnvCall trapped from supervisor mode")
			sbi.Shutdown()
		}
		tf.Sepc += 4
		syscall.Dispatch(tf, mgr)

	case scause == trap.CauseSupervisorTimer:
		rearmTimer()
		if fromUser {
			preemptCurrent(mgr)
		}
		// Supervisor-mode timer interrupts return to the interrupted
		// kernel stream without switching: the
		// kernel never sets sstatus.SIE, so this path is normally
		// unreachable, but must never schedule if it is taken.

	case isUserFaultCause(scause):
		if !fromUser {
			console.Panicf("unexpected supervisor fault: scause=%#x stval=%#x", uint64(scause), stval)
			sbi.Shutdown()
		}
		logFaultingInstruction(mgr, tf.Sepc)
		killCurrent(mgr, userFaultExitCode)

	default:
		console.Panicf("unrecognized trap: scause=%#x stval=%#x fromUser=%v", uint64(scause), stval, fromUser)
		sbi.Shutdown()
	}
}

func isUserFaultCause(c trap.Cause) bool {
	switch c {
	case trap.CauseInstructionPageFault, trap.CauseLoadPageFault, trap.CauseStorePageFault,
		trap.CauseLoadFault, trap.CauseStoreFault, trap.CauseInstructionFault,
		trap.CauseIllegalInstruction:
		return true
	default:
		return false
	}
}

func rearmTimer() {
	sbi.SetTimer(arch.ReadTime() + config.TicksPerSlice)
}

func preemptCurrent(mgr *task.Manager) {
	if err := mgr.Preempt(); err != nil {
		sbi.Shutdown()
	}
}

// logFaultingInstruction best-effort disassembles the instruction at sepc
// in the current task's address space and logs it, so a killed task's
// console trace shows what it actually executed.
func logFaultingInstruction(mgr *task.Manager, sepc uint64) {
	t, ok := mgr.Current()
	if !ok {
		return
	}
	pa, _, ok := t.AS.Translate(sepc)
	if !ok {
		console.Warn("fault at sepc=%#x: not mapped, cannot disassemble", sepc)
		return
	}
	page := mem.PageBytes(arch.PAToPPN(pa &^ config.PGMASK))
	off := int(pa & config.PGMASK)
	text, _, err := disasm.Instruction(page[off:])
	if err != nil {
		console.Warn("fault at sepc=%#x: %v", sepc, err)
		return
	}
	console.Warn("fault at sepc=%#x: %s", sepc, text)
}

func killCurrent(mgr *task.Manager, code int64) {
	t, ok := mgr.Current()
	if !ok {
		panic("traphandler: fault with no current task")
	}
	t.Kill(code)
	// On ErrShutdown no task is current any more; the caller of Handle sees
	// that, dumps the exit history and shuts down.
	_ = mgr.Exit()
}
