//go:build riscv64

package arch

// ReadTime reads the RISC-V `time` CSR directly. Implemented in csr_riscv64.s.
func ReadTime() uint64

// WriteStvec installs the trap vector base address.
func WriteStvec(addr uint64)

// WriteSscratch initializes sscratch, the scratch slot __alltraps/
// __restore use to stash the current TrapFrame VA across the user/kernel
// boundary.
func WriteSscratch(v uint64)

// EnableTimerInterrupt sets sie.STIE without touching sstatus.SIE: the
// kernel never runs with interrupts enabled in S-mode;
// interrupts only arrive after sret restores SPIE into SIE.
func EnableTimerInterrupt()

// ReadSCause reads the scause CSR, identifying why the current trap was
// taken.
func ReadSCause() uint64

// ReadSTval reads the stval CSR, the faulting address/instruction detail
// associated with the current trap.
func ReadSTval() uint64
