// Package console provides the kernel's leveled logging wrapper over the
// SBI console: fmt-based output, no structured-logging dependency,
// matching biscuit's direct fmt.Printf calls to its own console writer.
package console

import (
	"fmt"
	"io"

	"sv39kernel/internal/sbi"
)

// sbiWriter adapts sbi.ConsoleWrite to an io.Writer so fmt.Fprintf can target
// it directly, the same way biscuit's console sits behind a plain
// io.Writer.
type sbiWriter struct{}

func (sbiWriter) Write(p []byte) (int, error) { return sbi.ConsoleWrite(p) }

// Out is the kernel console, usable directly with the fmt.Fprint* family.
var Out io.Writer = sbiWriter{}

// Printf writes a formatted, unleveled line -- used for boot banners and
// raw application output.
func Printf(format string, args ...any) {
	fmt.Fprintf(Out, format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	fmt.Fprintf(Out, "[info] "+format+"\n", args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	fmt.Fprintf(Out, "[warn] "+format+"\n", args...)
}

// Panicf logs a fatal message and panics, matching biscuit's discipline
// of panicking on internal invariant violations rather than propagating
// an error.
func Panicf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(Out, "[panic] %s\n", msg)
	panic(msg)
}
