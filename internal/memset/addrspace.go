package memset

import (
	"fmt"

	"sv39kernel/internal/arch"
	"sv39kernel/internal/config"
	"sv39kernel/internal/mem"
	"sv39kernel/internal/pagetable"
)

// TrampolineFrame is the process-wide singleton physical frame holding the
// trampoline code, captured once when the kernel address space is built
// and mapped (never copied) into every user address space thereafter.
var TrampolineFrame arch.PPN

// TrampolineCode holds the trampoline's machine code bytes, set once via
// SetTrampolineCode before the first AddressSpace is built. MapTrampoline
// copies it into TrampolineFrame the first time that frame is allocated,
// since the code is linked at its own kernel-text address but must run
// identically when mapped at config.TrampolineVA in every address space.
var TrampolineCode []byte

// SetTrampolineCode records the bytes copied into TrampolineFrame. Must be
// called before the first call to MapTrampoline.
func SetTrampolineCode(code []byte) {
	TrampolineCode = code
}

// AddressSpace owns one page-table root plus an ordered list of mapped
// regions. Dropping an AddressSpace releases every region's
// frames, every branch frame, and the root.
type AddressSpace struct {
	PT      *pagetable.PageTable
	Regions []*MapRegion

	frames *mem.FrameAllocator
}

// NewBare allocates an empty address space with only a root page table.
func NewBare(frames *mem.FrameAllocator) (*AddressSpace, error) {
	pt, err := pagetable.New(frames, mem.PageTableView)
	if err != nil {
		return nil, err
	}
	return &AddressSpace{PT: pt, frames: frames}, nil
}

// mapRegion installs every VPN of r into the page table and appends it to
// Regions. For Framed regions missing frames, fresh zeroed frames are
// allocated and recorded in r.Frames.
func (as *AddressSpace) mapRegion(r *MapRegion) error {
	flags := r.Perms.ToPTEFlags()
	for vpn := r.Start; vpn < r.End; vpn++ {
		ppn := r.ensurePPN(vpn, as.frames)
		if err := as.PT.Map(vpn, ppn, flags); err != nil {
			return fmt.Errorf("memset: mapping vpn %#x: %w", vpn, err)
		}
	}
	as.Regions = append(as.Regions, r)
	return nil
}

// ensurePPN is like PPNFor but allocates a fresh frame for a Framed region
// the first time vpn is touched, recording it in r.Frames.
func (r *MapRegion) ensurePPN(vpn arch.VPN, frames *mem.FrameAllocator) arch.PPN {
	if r.Kind == Identical {
		return arch.PPN(vpn)
	}
	if ppn, ok := r.Frames[vpn]; ok {
		return ppn
	}
	ppn, ok := frames.Alloc()
	if !ok {
		panic("memset: out of frames mapping a region")
	}
	r.Frames[vpn] = ppn
	return ppn
}

// MapTrampoline maps the shared trampoline frame R-X (not U) at
// config.TrampolineVA. The very first AddressSpace built (the kernel's)
// allocates TrampolineFrame; every later one, including every user
// AddressSpace, maps that same frame.
func (as *AddressSpace) MapTrampoline() error {
	if TrampolineFrame == 0 {
		ppn, ok := as.frames.Alloc()
		if !ok {
			panic("memset: no frame for trampoline")
		}
		TrampolineFrame = ppn
		if TrampolineCode != nil {
			copy(mem.PageBytes(ppn), TrampolineCode)
		}
	}
	vpn := arch.VAToVPN(config.TrampolineVA)
	r := &MapRegion{
		Kind:   Framed,
		Start:  vpn,
		End:    vpn + 1,
		Perms:  arch.PermR | arch.PermX,
		Frames: map[arch.VPN]arch.PPN{vpn: TrampolineFrame},
	}
	flags := r.Perms.ToPTEFlags()
	if err := as.PT.Map(vpn, TrampolineFrame, flags); err != nil {
		return err
	}
	as.Regions = append(as.Regions, r)
	return nil
}

// Activate writes satp and issues sfence.vma. Every satp write
// is followed by a TLB fence.
func (as *AddressSpace) Activate() {
	writeSatpAndFence(as.PT.Satp())
}

// Token returns the satp value for this address space without writing it,
// for stashing into a TrapFrame's kernel-satp/user-satp slots.
func (as *AddressSpace) Token() uint64 {
	return as.PT.Satp()
}

// Translate returns the physical address backing va, if mapped.
func (as *AddressSpace) Translate(va uint64) (pa uint64, flags arch.PTEFlags, ok bool) {
	vpn := arch.VAToVPN(va)
	ppn, flags, ok := as.PT.Translate(vpn)
	if !ok {
		return 0, 0, false
	}
	off := va & config.PGMASK
	return ppn.PA() + off, flags, true
}

// Drop releases every region's frames (leaf frames; the trampoline frame
// is shared and never freed here), every branch frame the page table
// owned, and the root, strictly decreasing frames_in_use by exactly the
// count it owned.
func (as *AddressSpace) Drop() {
	for _, r := range as.Regions {
		if r.Kind != Framed {
			continue
		}
		for _, ppn := range r.Frames {
			if ppn == TrampolineFrame {
				continue // shared, not owned by this region
			}
			as.frames.Dealloc(ppn)
		}
	}
	as.PT.DeallocIntermediate()
	as.Regions = nil
}
