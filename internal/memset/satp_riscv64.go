//go:build riscv64

package memset

// writeSatpAndFence writes the satp CSR and issues sfence.vma; implemented
// in satp_riscv64.s. Every satp write is followed by a TLB fence.
func writeSatpAndFence(satp uint64)

// fenceVMA issues sfence.vma with no operands, flushing the whole TLB.
// Used after removing a mapping so a freed frame is never served stale
// from a cached translation.
func fenceVMA()
