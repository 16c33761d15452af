//go:build riscv64

package lib

// ecall6 issues a raw ecall with syscall number nr in a7 and up to six
// arguments in a0..a5, returning whatever the kernel stored back into a0.
// Implemented in ecall_riscv64.s.
func ecall6(nr uint64, a0, a1, a2, a3, a4, a5 uint64) int64
