package task

import "sv39kernel/internal/context"

// ErrShutdown is returned by Switch/Exit when the ready+running set has
// become empty: there is nothing left to run.
type ErrShutdown struct{}

func (ErrShutdown) Error() string { return "task: no ready or running task, shutdown" }

// Yield implements sys_yield's scheduling half: enqueue the current task
// Ready, then hand the CPU to whatever runs next.
func (m *Manager) Yield() error {
	return m.switchAway(true)
}

// Preempt implements the timer-interrupt preemption path: identical to
// Yield from the scheduler's point of view.
func (m *Manager) Preempt() error {
	return m.switchAway(true)
}

// Exit implements sys_exit's scheduling half: the current task is already
// Zombie and must not be re-enqueued.
func (m *Manager) Exit() error {
	return m.switchAway(false)
}

// switchAway performs one scheduling step. If reenqueue is true the
// current task (if any, and unless it is Zombie) is marked Ready and
// appended to the tail of the queue before the next task is popped;
// callers exiting a task pass false. A current task that is not
// re-enqueued has its exit recorded.
func (m *Manager) switchAway(reenqueue bool) error {
	m.mu.Lock()

	var curTCB *TCB
	if m.hasCur {
		curTCB = m.all[m.current]
		if reenqueue && curTCB.State != Zombie {
			curTCB.State = Ready
			m.ready = append(m.ready, curTCB.Pid)
		} else {
			m.recordExit(curTCB.Pid, curTCB.ExitCode)
		}
	}

	nextPid, ok := m.popReady()
	if !ok {
		m.hasCur = false
		m.mu.Unlock()
		return ErrShutdown{}
	}
	next := m.all[nextPid]
	next.State = Running
	m.current = nextPid
	m.hasCur = true
	m.mu.Unlock()

	// Switch itself must run lock-free: it never returns to this function
	// for the outgoing task until some later Switch brings it back, so
	// holding mu across the call would deadlock the next trap that needs
	// the manager.
	var curCtx *context.KernelContext
	if curTCB != nil {
		curCtx = &curTCB.Ctx
	} else {
		// No previous kernel stream to save (first switch at boot): use a
		// throwaway context, its contents are never read.
		curCtx = &context.KernelContext{}
	}
	context.Switch(curCtx, &next.Ctx)
	return nil
}
