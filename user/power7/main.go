// power7 rounds out the power3/power5/power7 trio: same shape,
// different base, so exit-order and interleaving depend only on
// scheduling, not on any difference in the app logic.
package main

import "sv39kernel/user/lib"

func main() {
	x := uint64(1)
	for i := 0; i < 20; i++ {
		x *= 7
		lib.Print("power7: 7^n step\n")
		lib.Yield()
	}
	lib.Exit(int64(x))
}
