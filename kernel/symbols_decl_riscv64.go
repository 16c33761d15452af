//go:build riscv64

package kernel

// Link-time addresses of the trampoline and trap-entry assembly symbols;
// implemented in symbols_riscv64.s.
func trampolineAllTrapsAddr() uint64
func trampolineAllTrapsEndAddr() uint64
func trampolineRestoreAddr() uint64
func trapEntryAddr() uint64
