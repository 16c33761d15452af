package task

import "sync"

// exitHistoryLen bounds the diagnostic exit-code ring;
// it is not a syscall-visible feature, just a shutdown-time dump.
const exitHistoryLen = 16

type exitRecord struct {
	pid  Pid
	code int64
}

// Manager owns the ready queue, the current-task pointer, and the table of
// all live tasks. Spec §4.7: "Ready set: FIFO queue", strict FIFO, no
// priorities. Locks are acquired task-table-before-scheduler and released
// before Switch; since this kernel runs a single hart, the lock
// only guards against reentrant trap-handler access, not true concurrency.
type Manager struct {
	mu      sync.Mutex
	all     map[Pid]*TCB
	ready   []Pid // FIFO: index 0 is the head
	current Pid
	hasCur  bool
	nextPid Pid

	exitHistory []exitRecord
}

// NewManager constructs an empty task manager.
func NewManager() *Manager {
	return &Manager{all: map[Pid]*TCB{}}
}

// Spawn registers t and enqueues it Ready.
func (m *Manager) Spawn(t *TCB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all[t.Pid] = t
	m.ready = append(m.ready, t.Pid)
}

// AllocPid returns the next unused Pid for the caller to build a TCB with.
func (m *Manager) AllocPid() Pid {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.nextPid
	m.nextPid++
	return p
}

// Current returns the currently running task, if any.
func (m *Manager) Current() (*TCB, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasCur {
		return nil, false
	}
	return m.all[m.current], true
}

// Enqueue marks pid Ready and appends it to the tail of the ready queue.
func (m *Manager) Enqueue(pid Pid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.all[pid]
	if !ok || t.State == Zombie {
		return
	}
	t.State = Ready
	m.ready = append(m.ready, pid)
}

// popReady removes and returns the head of the ready queue. Caller must
// hold mu.
func (m *Manager) popReady() (Pid, bool) {
	if len(m.ready) == 0 {
		return 0, false
	}
	pid := m.ready[0]
	m.ready = m.ready[1:]
	return pid, true
}

// Empty reports whether there is no Ready task and no Running task --
// the shutdown condition.
func (m *Manager) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ready) == 0 && !m.hasCur
}

// recordExit appends to the bounded exit-code history ring used only by
// the shutdown diagnostic dump. Caller must hold mu.
func (m *Manager) recordExit(pid Pid, code int64) {
	m.exitHistory = append(m.exitHistory, exitRecord{pid, code})
	if len(m.exitHistory) > exitHistoryLen {
		m.exitHistory = m.exitHistory[len(m.exitHistory)-exitHistoryLen:]
	}
}

// ExitHistory returns a snapshot of the last exited tasks' (pid, code)
// pairs, newest last.
func (m *Manager) ExitHistory() []struct {
	Pid  Pid
	Code int64
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]struct {
		Pid  Pid
		Code int64
	}, len(m.exitHistory))
	for i, r := range m.exitHistory {
		out[i] = struct {
			Pid  Pid
			Code int64
		}{r.pid, r.code}
	}
	return out
}
