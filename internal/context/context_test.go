package context

import "testing"

func TestInitFirstRunFieldPlacement(t *testing.T) {
	var ctx KernelContext
	ctx.InitFirstRun(0x1000, 0x2000, 0x3000, 0x4000)

	if ctx.RA != 0x1000 {
		t.Fatalf("RA = %#x, want %#x", ctx.RA, 0x1000)
	}
	if ctx.SP != 0x2000 {
		t.Fatalf("SP = %#x, want %#x", ctx.SP, 0x2000)
	}
	if ctx.A0 != 0x3000 {
		t.Fatalf("A0 = %#x, want %#x", ctx.A0, 0x3000)
	}
	if ctx.A1 != 0x4000 {
		t.Fatalf("A1 = %#x, want %#x", ctx.A1, 0x4000)
	}
	for i, s := range ctx.S {
		if s != 0 {
			t.Fatalf("S[%d] = %#x, want 0 (InitFirstRun resets callee-saved registers)", i, s)
		}
	}
}

func TestInitFirstRunOverwritesPriorState(t *testing.T) {
	ctx := KernelContext{RA: 1, SP: 2, S: [12]uint64{1, 2, 3}, A0: 4, A1: 5}
	ctx.InitFirstRun(0x10, 0x20, 0x30, 0x40)
	if ctx.S[0] != 0 || ctx.S[1] != 0 || ctx.S[2] != 0 {
		t.Fatalf("expected InitFirstRun to clear stale S registers, got %v", ctx.S)
	}
}
