//go:build !riscv64

package arch

var fakeTime uint64

// ReadTime returns a monotonically increasing counter off riscv64, so
// host-side tests of gettime-adjacent logic (e.g. syscall dispatch tables)
// can run without real hardware.
func ReadTime() uint64 {
	fakeTime++
	return fakeTime
}

func WriteStvec(addr uint64) {}
func WriteSscratch(v uint64) {}
func EnableTimerInterrupt()  {}
func ReadSCause() uint64     { return 0 }
func ReadSTval() uint64      { return 0 }
