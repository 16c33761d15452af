// Package sbi wraps the handful of Supervisor Binary Interface calls this
// kernel consumes: console putchar, timer, and system reset. Extension
// and function IDs are the legacy SBI v0.1 console calls plus the SRST
// (system reset) extension.
package sbi

const (
	extLegacyPutchar = 0x01
	extLegacyGetchar = 0x02
	extTimer         = 0x54494D45 // "TIME"
	extSRST          = 0x53525354 // "SRST"

	fnSetTimer = 0

	fnReset = 0

	resetTypeShutdown = 0
	resetReasonNone   = 0
)

// PutChar writes one byte to the SBI console (legacy extension 0x01).
func PutChar(c byte) {
	ecall(extLegacyPutchar, 0, uint64(c), 0)
}

// ConsoleWrite writes every byte of b to the SBI console in order.
func ConsoleWrite(b []byte) (int, error) {
	for _, c := range b {
		PutChar(c)
	}
	return len(b), nil
}

// SetTimer arms the supervisor timer to fire when the `time` CSR reaches
// deadline.
func SetTimer(deadline uint64) {
	ecall(extTimer, fnSetTimer, deadline, 0)
}

// Shutdown invokes the SRST extension with type=Shutdown, reason=NoReason.
// It never returns.
func Shutdown() {
	ecall(extSRST, fnReset, resetTypeShutdown, resetReasonNone)
	for {
		// SBI implementations that somehow return from a shutdown request
		// leave the hart parked here rather than falling back into
		// whatever garbage follows in .text.
	}
}
