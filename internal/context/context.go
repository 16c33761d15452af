// Package context implements the cooperative kernel-to-kernel context
// switch: saving and restoring callee-saved registers between two kernel
// execution streams via an assembly routine, a biscuit/rCore-style
// "coroutine-like task switch".
package context

// KernelContext holds the callee-saved registers needed to
// resume a suspended kernel stream: ra, sp, and s0..s11, plus a0/a1 used
// only to bootstrap a task's very first run. Field order and size are
// load-bearing -- switch_riscv64.s indexes into this struct by raw offset.
type KernelContext struct {
	RA uint64
	SP uint64
	S  [12]uint64 // s0..s11

	// A0, A1 are restored into a0/a1 immediately before Switch returns.
	// Switch never saves into them, so they keep the values InitFirstRun
	// stored; a task resuming from an ordinary Switch call ignores them. A
	// first-run task has RA pointing at the trampoline's restore path
	// instead of ordinary Go code, which expects a0=TrapFrame VA and
	// a1=user satp already loaded.
	A0, A1 uint64
}

// InitFirstRun prepares ctx so the first Switch into this task lands
// directly on the trampoline's restore-to-user path (restoreVA), running
// on kernelSP with a0/a1 preloaded exactly as __restore expects them.
func (ctx *KernelContext) InitFirstRun(restoreVA, kernelSP, trapFrameVA, userSatp uint64) {
	*ctx = KernelContext{RA: restoreVA, SP: kernelSP, A0: trapFrameVA, A1: userSatp}
}
