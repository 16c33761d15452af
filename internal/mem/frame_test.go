package mem

import (
	"testing"

	"sv39kernel/internal/arch"
)

func TestFrameAllocExhaustion(t *testing.T) {
	fa := NewFrameAllocator(arch.PPN(10), arch.PPN(13), nil, nil)

	var got []arch.PPN
	for {
		ppn, ok := fa.Alloc()
		if !ok {
			break
		}
		got = append(got, ppn)
	}
	if len(got) != 3 {
		t.Fatalf("allocated %d frames, want 3", len(got))
	}
	if _, ok := fa.Alloc(); ok {
		t.Fatal("expected exhaustion after allocating the full range")
	}
}

func TestFrameAllocNeverOutOfRange(t *testing.T) {
	fa := NewFrameAllocator(arch.PPN(5), arch.PPN(5+wordBits+3), nil, nil)
	for {
		ppn, ok := fa.Alloc()
		if !ok {
			break
		}
		if ppn < 5 || ppn >= 5+wordBits+3 {
			t.Fatalf("Alloc returned out-of-range ppn %d", ppn)
		}
	}
}

func TestFrameDeallocThenRealloc(t *testing.T) {
	fa := NewFrameAllocator(arch.PPN(0), arch.PPN(2), nil, nil)
	a, ok := fa.Alloc()
	if !ok {
		t.Fatal("expected a free frame")
	}
	b, ok := fa.Alloc()
	if !ok {
		t.Fatal("expected a second free frame")
	}
	if _, ok := fa.Alloc(); ok {
		t.Fatal("expected exhaustion")
	}
	fa.Dealloc(a)
	c, ok := fa.Alloc()
	if !ok {
		t.Fatal("expected dealloc to free a frame for reuse")
	}
	if c != a {
		t.Fatalf("reallocated %d, want the just-freed frame %d", c, a)
	}
	_ = b
}

func TestFrameDeallocOutOfRangeIsNoop(t *testing.T) {
	fa := NewFrameAllocator(arch.PPN(10), arch.PPN(12), nil, nil)
	fa.Dealloc(arch.PPN(1000)) // must not panic or corrupt state
	if fa.FreeCount() != 2 {
		t.Fatalf("FreeCount() = %d, want 2", fa.FreeCount())
	}
}

func TestFrameDeallocIsIdempotent(t *testing.T) {
	fa := NewFrameAllocator(arch.PPN(0), arch.PPN(4), nil, nil)
	ppn, _ := fa.Alloc()
	fa.Dealloc(ppn)
	fa.Dealloc(ppn) // second dealloc of the same frame must not corrupt the bitmap
	if fa.FreeCount() != 4 {
		t.Fatalf("FreeCount() = %d, want 4", fa.FreeCount())
	}
}

func TestFrameAllocCallsZero(t *testing.T) {
	var zeroed []arch.PPN
	fa := NewFrameAllocator(arch.PPN(0), arch.PPN(3), func(p arch.PPN) {
		zeroed = append(zeroed, p)
	}, nil)
	ppn, ok := fa.Alloc()
	if !ok {
		t.Fatal("expected a free frame")
	}
	if len(zeroed) != 1 || zeroed[0] != ppn {
		t.Fatalf("zero callback invoked with %v, want [%d]", zeroed, ppn)
	}
}

func TestNewFrameAllocatorRejectsEmptyRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an empty range")
		}
	}()
	NewFrameAllocator(arch.PPN(5), arch.PPN(5), nil, nil)
}

func TestFreeCountAfterPartialAlloc(t *testing.T) {
	fa := NewFrameAllocator(arch.PPN(0), arch.PPN(10), nil, nil)
	if fa.FreeCount() != 10 {
		t.Fatalf("FreeCount() = %d, want 10", fa.FreeCount())
	}
	fa.Alloc()
	if fa.FreeCount() != 9 {
		t.Fatalf("FreeCount() = %d, want 9", fa.FreeCount())
	}
}
