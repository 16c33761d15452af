//go:build riscv64

package kernel

// Link-time section boundaries from kernel.ld; implemented in
// linksyms_riscv64.s.
func linkTextStart() uint64
func linkTextEnd() uint64
func linkRodataStart() uint64
func linkRodataEnd() uint64
func linkDataStart() uint64
func linkBssEnd() uint64
