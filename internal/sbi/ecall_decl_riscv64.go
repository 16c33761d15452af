//go:build riscv64

package sbi

// ecall issues an SBI call with the given extension/function ID and up to
// two arguments, returning SBI's (error, value) pair. Implemented in
// ecall_riscv64.s.
func ecall(ext, fid, a0, a1 uint64) (errCode, value uint64)
