// Package disasm renders the instruction a user task faulted at back to
// assembly text, using golang.org/x/arch's riscv64 decoder. The kernel has
// no native riscv64 disassembler of its own to lean on.
package disasm

import (
	"fmt"

	"golang.org/x/arch/riscv64/riscv64asm"
)

// Instruction decodes one riscv64 instruction starting at code[0],
// returning its disassembled text and byte length. Used from the trap
// handler's user-fault path with code read directly out of the faulting
// address space.
func Instruction(code []byte) (text string, length int, err error) {
	inst, err := riscv64asm.Decode(code)
	if err != nil {
		return "", 0, fmt.Errorf("disasm: decode: %w", err)
	}
	return riscv64asm.GNUSyntax(inst), inst.Len, nil
}

// Context disassembles up to n instructions starting at pc within code,
// formatting each with its offset from pc for a panic dump.
func Context(code []byte, pc uint64, n int) []string {
	lines := make([]string, 0, n)
	off := 0
	for i := 0; i < n && off < len(code); i++ {
		text, length, err := Instruction(code[off:])
		if err != nil || length == 0 {
			lines = append(lines, fmt.Sprintf("%#x: <decode error>", pc+uint64(off)))
			break
		}
		lines = append(lines, fmt.Sprintf("%#x: %s", pc+uint64(off), text))
		off += length
	}
	return lines
}
