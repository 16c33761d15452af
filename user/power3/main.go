// power3 is a CPU-bound scenario app: it spins computing
// successive powers of 3 and yields between iterations, giving the
// scheduler something to round-robin between alongside power5/power7.
package main

import "sv39kernel/user/lib"

func main() {
	x := uint64(1)
	for i := 0; i < 20; i++ {
		x *= 3
		lib.Print("power3: 3^n step\n")
		lib.Yield()
	}
	lib.Exit(int64(x))
}
