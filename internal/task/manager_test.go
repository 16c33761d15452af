package task

func newTestTCB(pid Pid) *TCB {
	return &TCB{Pid: pid, State: Ready}
}

func mustSpawn(m *Manager, pid Pid) *TCB {
	t := newTestTCB(pid)
	m.Spawn(t)
	return t
}
