//go:build !riscv64

package sbi

// ecall has no implementation off riscv64; console/timer/shutdown paths
// are exercised through the console package's pure formatting logic on
// the host, not through a real SBI call.
func ecall(ext, fid, a0, a1 uint64) (errCode, value uint64) { return 0, 0 }
