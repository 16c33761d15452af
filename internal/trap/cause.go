package trap

// Cause mirrors the values riscv64 places in scause: the low bits are the
// exception/interrupt code, the top bit (added back in via the Interrupt
// flag) distinguishes traps from interrupts.
type Cause uint64

const interruptBit Cause = 1 << 63

const (
	// Exceptions (Interrupt bit clear).
	CauseUserEnvCall           Cause = 8
	CauseInstructionPageFault  Cause = 12
	CauseLoadPageFault         Cause = 13
	CauseStorePageFault        Cause = 15
	CauseInstructionFault      Cause = 1
	CauseLoadFault             Cause = 5
	CauseStoreFault            Cause = 7
	CauseIllegalInstruction    Cause = 2

	// Interrupts (Interrupt bit set); SupervisorTimer is cause 5 with the
	// top bit set.
	causeSupervisorTimerBits Cause = 5
)

// CauseSupervisorTimer is the scause value for a supervisor-timer
// interrupt.
const CauseSupervisorTimer = causeSupervisorTimerBits | interruptBit

// IsInterrupt reports whether c is an interrupt rather than an exception.
func (c Cause) IsInterrupt() bool { return c&interruptBit != 0 }

// Code returns the cause code with the interrupt bit stripped.
func (c Cause) Code() uint64 { return uint64(c &^ interruptBit) }
