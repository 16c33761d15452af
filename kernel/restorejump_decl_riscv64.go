//go:build riscv64

package kernel

// jumpToRestore is implemented in restorejump_riscv64.s.
func jumpToRestore(trampVA, trapFrameVA, satp uint64)
