package task

import "testing"

func TestSpawnThenYieldFIFOOrder(t *testing.T) {
	m := NewManager()
	a := mustSpawn(m, m.AllocPid())
	b := mustSpawn(m, m.AllocPid())

	// Running a's Yield should pop a (the only ready task initially popped
	// is whichever is at the head -- a was spawned first).
	if err := m.Yield(); err != nil {
		t.Fatalf("Yield: %v", err)
	}
	cur, ok := m.Current()
	if !ok || cur.Pid != a.Pid {
		t.Fatalf("Current after first Yield = (%v, %v), want (%d, true)", cur, ok, a.Pid)
	}

	if err := m.Yield(); err != nil {
		t.Fatalf("Yield: %v", err)
	}
	cur, ok = m.Current()
	if !ok || cur.Pid != b.Pid {
		t.Fatalf("Current after second Yield = (%v, %v), want (%d, true)", cur, ok, b.Pid)
	}

	// a was re-enqueued by the first Yield, so a third Yield returns to it.
	if err := m.Yield(); err != nil {
		t.Fatalf("Yield: %v", err)
	}
	cur, ok = m.Current()
	if !ok || cur.Pid != a.Pid {
		t.Fatalf("Current after third Yield = (%v, %v), want (%d, true)", cur, ok, a.Pid)
	}
}

func TestExitDoesNotReenqueue(t *testing.T) {
	m := NewManager()
	a := mustSpawn(m, m.AllocPid())
	_ = mustSpawn(m, m.AllocPid())

	if err := m.Yield(); err != nil {
		t.Fatalf("Yield: %v", err)
	}
	cur, _ := m.Current()
	if cur.Pid != a.Pid {
		t.Fatalf("expected a running, got %d", cur.Pid)
	}
	cur.ExitCode = 7
	if err := m.Exit(); err != nil {
		t.Fatalf("Exit: %v", err)
	}

	for _, pid := range m.ready {
		if pid == a.Pid {
			t.Fatalf("exited pid %d was re-enqueued: ready = %v", a.Pid, m.ready)
		}
	}

	hist := m.ExitHistory()
	if len(hist) != 1 || hist[0].Pid != a.Pid || hist[0].Code != 7 {
		t.Fatalf("ExitHistory = %v, want one entry for pid %d code 7", hist, a.Pid)
	}
}

func TestSwitchAwayReturnsShutdownWhenEmpty(t *testing.T) {
	m := NewManager()
	if !m.Empty() {
		t.Fatal("a freshly constructed manager must be Empty")
	}
	if err := m.Yield(); err == nil {
		t.Fatal("expected ErrShutdown when there is nothing to run")
	} else if _, ok := err.(ErrShutdown); !ok {
		t.Fatalf("Yield err = %v (%T), want ErrShutdown", err, err)
	}
}

func TestEnqueueIgnoresUnknownPid(t *testing.T) {
	m := NewManager()
	m.Enqueue(Pid(999)) // must not panic
	if !m.Empty() {
		t.Fatal("enqueueing an unknown pid must not make the manager non-empty")
	}
}

func TestEnqueueIgnoresZombie(t *testing.T) {
	m := NewManager()
	mustSpawn(m, m.AllocPid())
	if err := m.Yield(); err != nil {
		t.Fatalf("Yield: %v", err)
	}
	cur, _ := m.Current()
	cur.State = Zombie
	m.Enqueue(cur.Pid)
	if err := m.Yield(); err == nil {
		t.Fatal("expected shutdown: the only task is Zombie and must not have been re-enqueued")
	}
}

func TestExitHistoryBounded(t *testing.T) {
	m := NewManager()
	for i := 0; i < exitHistoryLen+5; i++ {
		pid := m.AllocPid()
		mustSpawn(m, pid)
	}
	for i := 0; i < exitHistoryLen+5; i++ {
		if err := m.Yield(); err != nil {
			t.Fatalf("Yield %d: %v", i, err)
		}
		cur, _ := m.Current()
		cur.ExitCode = int64(i)
		if err := m.Exit(); err != nil && i != exitHistoryLen+4 {
			t.Fatalf("Exit %d: %v", i, err)
		}
	}
	hist := m.ExitHistory()
	if len(hist) > exitHistoryLen {
		t.Fatalf("ExitHistory length = %d, want <= %d", len(hist), exitHistoryLen)
	}
}

func TestCurrentFalseBeforeAnySwitch(t *testing.T) {
	m := NewManager()
	mustSpawn(m, m.AllocPid())
	if _, ok := m.Current(); ok {
		t.Fatal("Current must be false before the first Yield/Switch")
	}
}
