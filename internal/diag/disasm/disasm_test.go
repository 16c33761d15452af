package disasm

import (
	"strings"
	"testing"
)

// nop is the canonical riscv64 encoding of addi x0, x0, 0 (0x00000013),
// little-endian.
var nop = []byte{0x13, 0x00, 0x00, 0x00}

// illegal is all-zero bits, not a valid riscv64 encoding in any form.
var illegal = []byte{0x00, 0x00, 0x00, 0x00}

func TestInstructionDecodesNop(t *testing.T) {
	text, length, err := Instruction(nop)
	if err != nil {
		t.Fatalf("Instruction(nop): %v", err)
	}
	if length != 4 {
		t.Fatalf("length = %d, want 4", length)
	}
	if text == "" {
		t.Fatal("expected non-empty disassembly text")
	}
}

func TestInstructionErrorsOnIllegalEncoding(t *testing.T) {
	if _, _, err := Instruction(illegal); err == nil {
		t.Fatal("expected a decode error for an all-zero instruction word")
	}
}

func TestContextStopsOnDecodeError(t *testing.T) {
	code := append(append([]byte{}, nop...), illegal...)
	lines := Context(code, 0x8020_0000, 5)
	if len(lines) != 2 {
		t.Fatalf("Context returned %d lines, want 2 (one decoded, one decode-error marker)", len(lines))
	}
	if !strings.Contains(lines[1], "decode error") {
		t.Fatalf("second line = %q, want it to report a decode error", lines[1])
	}
}

func TestContextRespectsN(t *testing.T) {
	code := append(append(append([]byte{}, nop...), nop...), nop...)
	lines := Context(code, 0, 2)
	if len(lines) != 2 {
		t.Fatalf("Context returned %d lines, want 2 (bounded by n)", len(lines))
	}
}
