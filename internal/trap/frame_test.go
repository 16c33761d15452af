package trap

import "testing"

func TestSyscallArgsReadsA0ThroughA7(t *testing.T) {
	var f Frame
	f.X[regA7] = 64
	f.X[regA0] = 1
	f.X[regA1] = 2
	f.X[regA2] = 3
	f.X[regA3] = 4
	f.X[regA4] = 5
	f.X[regA5] = 6

	id, args := f.SyscallArgs()
	if id != 64 {
		t.Fatalf("id = %d, want 64", id)
	}
	want := [6]uint64{1, 2, 3, 4, 5, 6}
	if args != want {
		t.Fatalf("args = %v, want %v", args, want)
	}
}

func TestSetReturnWritesA0(t *testing.T) {
	var f Frame
	ret := int64(-22)
	f.SetReturn(ret)
	if f.X[regA0] != uint64(ret) {
		t.Fatalf("X[a0] = %#x, want %#x", f.X[regA0], uint64(ret))
	}
}

func TestSPAccessors(t *testing.T) {
	var f Frame
	f.SetSP(0xdead0000)
	if f.SP() != 0xdead0000 {
		t.Fatalf("SP() = %#x, want %#x", f.SP(), 0xdead0000)
	}
}

func TestFromUserReadsSPP(t *testing.T) {
	f := Frame{Sstatus: 0}
	if !f.FromUser() {
		t.Fatal("SPP=0 must report FromUser() == true")
	}
	f.Sstatus = sstatusSPP
	if f.FromUser() {
		t.Fatal("SPP=1 must report FromUser() == false")
	}
}

func TestInitUserEntrySetsExpectedFields(t *testing.T) {
	f := Frame{Sepc: 0xff, KernelSatp: 0xff}
	f.InitUserEntry(0x1000, 0x2000, 0x3000, 0x4000, 0x5000)

	if f.Sepc != 0x1000 {
		t.Fatalf("Sepc = %#x, want %#x", f.Sepc, 0x1000)
	}
	if f.SP() != 0x2000 {
		t.Fatalf("SP() = %#x, want %#x", f.SP(), 0x2000)
	}
	if f.KernelSatp != 0x3000 {
		t.Fatalf("KernelSatp = %#x, want %#x", f.KernelSatp, 0x3000)
	}
	if f.KernelSP != 0x4000 {
		t.Fatalf("KernelSP = %#x, want %#x", f.KernelSP, 0x4000)
	}
	if f.TrapHandler != 0x5000 {
		t.Fatalf("TrapHandler = %#x, want %#x", f.TrapHandler, 0x5000)
	}
	if !f.FromUser() {
		t.Fatal("a fresh user entry must report FromUser() == true")
	}
	if f.Sstatus&sstatusSPIE == 0 {
		t.Fatal("InitUserEntry must set SPIE so sret re-enables interrupts")
	}
}
