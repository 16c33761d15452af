package syscall

import (
	"sv39kernel/internal/trap"
	"testing"
)

// These cases only exercise the argument-validation paths that return
// before touching the current task's address space, so they run safely
// without a real task.Manager or a mapped page table behind them.

func TestSysMmapRejectsNonAnonymous(t *testing.T) {
	got := sysMmap(nil, 0, 4096, protRead, 0, 0, 0)
	if got != errEINVAL {
		t.Fatalf("sysMmap without MAP_ANONYMOUS = %d, want %d", got, errEINVAL)
	}
}

func TestSysMmapRejectsZeroLength(t *testing.T) {
	got := sysMmap(nil, 0, 0, protRead, mapAnonymous, 0, 0)
	if got != errEINVAL {
		t.Fatalf("sysMmap with length 0 = %d, want %d", got, errEINVAL)
	}
}

func TestSysMunmapRejectsUnalignedAddr(t *testing.T) {
	got := sysMunmap(nil, 1, 4096)
	if got != errEINVAL {
		t.Fatalf("sysMunmap with unaligned addr = %d, want %d", got, errEINVAL)
	}
}

func TestSysWriteRejectsNonStdout(t *testing.T) {
	got := sysWrite(nil, 2, 0, 0)
	if got != errEINVAL {
		t.Fatalf("sysWrite to fd=2 = %d, want %d", got, errEINVAL)
	}
}

func TestDispatchUnknownSyscallReturnsEINVAL(t *testing.T) {
	var tf trap.Frame
	tf.X[17] = 9999 // a7: an id none of the six known syscalls use
	Dispatch(&tf, nil)
	id, args := tf.SyscallArgs()
	_ = args
	if id != 9999 {
		t.Fatalf("SyscallArgs id = %d, want 9999", id)
	}
	if got := int64(tf.X[10]); got != errEINVAL {
		t.Fatalf("a0 after unknown syscall = %d, want %d", got, errEINVAL)
	}
}

func TestDispatchGetTimeDoesNotTouchManager(t *testing.T) {
	var tf trap.Frame
	tf.X[17] = SysGetTime
	Dispatch(&tf, nil) // must not dereference mgr for gettime
}
