// power5 is power3's sibling scenario app, looping on powers of
// 5 instead, so the round-robin scheduler has at least three ready tasks
// to rotate between.
package main

import "sv39kernel/user/lib"

func main() {
	x := uint64(1)
	for i := 0; i < 20; i++ {
		x *= 5
		lib.Print("power5: 5^n step\n")
		lib.Yield()
	}
	lib.Exit(int64(x))
}
