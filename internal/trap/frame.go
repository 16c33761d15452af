// Package trap defines the per-task TrapFrame and the contract of the
// globally shared trampoline page. The trampoline assembly
// itself lives in kernel/asm, since it must be position-independent code
// mapped at the same VA in every address space; this package only defines
// the data layout both the assembly and the Go trap handler agree on.
package trap

// Frame is the saved CPU state at a trap, stored at the fixed virtual
// address config.TrapCtxVA in every user address space. Field order and
// size are load-bearing: __alltraps/__restore in kernel/asm/trampoline_*.s
// index into this struct by raw byte offset, matching the offsets below.
//
//	offset 0:     x[0..32)   general registers (x0 slot unused but kept for
//	                         indexing)
//	offset 256:   Sstatus
//	offset 264:   Sepc
//	offset 272:   KernelSatp
//	offset 280:   KernelSP
//	offset 288:   TrapHandler
type Frame struct {
	X [32]uint64 // x0..x31; x[2] is sp, x[10..16) are a0..a5, x[17] is a7

	Sstatus uint64
	Sepc    uint64

	// The following three slots are populated once, before the task first
	// runs, and read by __alltraps on every trap into this task.
	KernelSatp  uint64 // satp value identifying the kernel address space
	KernelSP    uint64 // this task's kernel stack top
	TrapHandler uint64 // kernel virtual address of trap_entry (kernel/trapentry_riscv64.s)
}

const (
	regSP = 2
	regA0 = 10
	regA1 = 11
	regA2 = 12
	regA3 = 13
	regA4 = 14
	regA5 = 15
	regA7 = 17
)

// SP returns the saved user stack pointer.
func (f *Frame) SP() uint64 { return f.X[regSP] }

// SetSP overwrites the saved user stack pointer.
func (f *Frame) SetSP(v uint64) { f.X[regSP] = v }

// SyscallArgs returns the six argument registers (a0..a5) and the syscall
// number (a7).
func (f *Frame) SyscallArgs() (id uint64, args [6]uint64) {
	id = f.X[regA7]
	args = [6]uint64{f.X[regA0], f.X[regA1], f.X[regA2], f.X[regA3], f.X[regA4], f.X[regA5]}
	return
}

// SetReturn stores a syscall's return value into the a0 slot.
func (f *Frame) SetReturn(v int64) { f.X[regA0] = uint64(v) }

const (
	// sstatusSPP is the bit recording the privilege mode a trap came from
	// (0 = user, 1 = supervisor).
	sstatusSPP = 1 << 8
	// sstatusSPIE is the bit that becomes sstatus.SIE after sret, re-
	// enabling interrupts in the mode being returned to.
	sstatusSPIE = 1 << 5
)

// FromUser reports whether this trap's sstatus.SPP indicates it was taken
// from user mode.
func (f *Frame) FromUser() bool {
	return f.Sstatus&sstatusSPP == 0
}

// InitUserEntry initializes a fresh Frame for a task's first activation:
// sepc = entry, user sp = userSP, SPP=User, SPIE=1 so sret re-enables
// interrupts.
func (f *Frame) InitUserEntry(entry, userSP, kernelSatp, kernelSP, trapHandler uint64) {
	*f = Frame{}
	f.Sepc = entry
	f.SetSP(userSP)
	f.Sstatus = sstatusSPIE // SPP left 0 (User)
	f.KernelSatp = kernelSatp
	f.KernelSP = kernelSP
	f.TrapHandler = trapHandler
}
