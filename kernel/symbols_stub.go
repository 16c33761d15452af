//go:build !riscv64

package kernel

// Off riscv64 there is no linked trampoline/trap-entry code to point at;
// these placeholder addresses only need to be distinct and non-zero so
// host-side tests of the bookkeeping around them (offset arithmetic) are
// exercised without dereferencing real memory.
func trampolineAllTrapsAddr() uint64    { return 0x1000 }
func trampolineAllTrapsEndAddr() uint64 { return 0x1100 }
func trampolineRestoreAddr() uint64     { return 0x1080 }
func trapEntryAddr() uint64             { return 0x2000 }

// Fake kernel.ld section boundaries for the same reason.
func linkTextStart() uint64   { return 0x80200000 }
func linkTextEnd() uint64     { return 0x80210000 }
func linkRodataStart() uint64 { return 0x80210000 }
func linkRodataEnd() uint64   { return 0x80214000 }
func linkDataStart() uint64   { return 0x80214000 }
func linkBssEnd() uint64      { return 0x80220000 }

// jumpToRestore has no implementation off riscv64: the boot path that
// calls it is riscv64-only kernel-binary code, never exercised by host
// tests (which test the task/memset/trap packages directly instead).
func jumpToRestore(trampVA, trapFrameVA, satp uint64) {}
