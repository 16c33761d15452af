//go:build riscv64

package context

// Switch saves the caller's callee-saved registers into cur, loads next's,
// and returns. Control resumes wherever next.RA points -- for a
// first-run task, the trampoline's __restore path; for a previously
// suspended task, the instruction right after its own earlier Switch
// call. Implemented in switch_riscv64.s.
func Switch(cur, next *KernelContext)
