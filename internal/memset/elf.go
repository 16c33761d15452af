package memset

import (
	"debug/elf"
	"fmt"
	"io"

	"sv39kernel/internal/arch"
	"sv39kernel/internal/config"
	"sv39kernel/internal/mem"
)

// ErrELFInvalid is returned (and, at boot, panicked on) when an embedded
// app image is not a little-endian RISC-V64 executable.
var ErrELFInvalid = fmt.Errorf("memset: invalid ELF image")

// FromELFResult carries the values a task control block needs after
// building a user address space from an ELF image.
type FromELFResult struct {
	AS      *AddressSpace
	UserSP  uint64
	Entry   uint64
	TrapCtx arch.PPN // frame backing TRAP_CTX_VA, resolved for the TCB
}

// FromELF builds a user address space from a statically linked RISC-V64
// ELF image: the trampoline, the trap-frame page, the user stack, and one
// Framed region per PT_LOAD segment.
func FromELF(frames *mem.FrameAllocator, image []byte) (*FromELFResult, error) {
	f, err := elf.NewFile(byteReaderAt(image))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrELFInvalid, err)
	}
	if f.Class != elf.ELFCLASS64 || f.Data != elf.ELFDATA2LSB {
		return nil, ErrELFInvalid
	}
	if f.Machine != elf.EM_RISCV {
		return nil, ErrELFInvalid
	}
	if f.Type != elf.ET_EXEC {
		return nil, ErrELFInvalid
	}

	as, err := NewBare(frames)
	if err != nil {
		return nil, err
	}

	// Step 2: trampoline, R-X, not U.
	if err := as.MapTrampoline(); err != nil {
		return nil, err
	}

	// Step 3: trap-frame page, RW, not U, one fresh frame.
	trapVPN := arch.VAToVPN(config.TrapCtxVA)
	trapRegion := NewFramed(trapVPN, trapVPN+1, arch.PermR|arch.PermW)
	if err := as.mapRegion(trapRegion); err != nil {
		return nil, err
	}
	trapPPN := trapRegion.Frames[trapVPN]

	// Step 4: user stack, framed R|W|U.
	stackTop := config.TrapCtxVA
	stackBot := stackTop - config.UserStackSize
	stackRegion := NewFramed(arch.VAToVPN(stackBot), arch.VAToVPN(stackTop),
		arch.PermR|arch.PermW|arch.PermU)
	if err := as.mapRegion(stackRegion); err != nil {
		return nil, err
	}

	// Step 5: one Framed region per PT_LOAD segment, in program-header
	// order; overlapping pages between segments merge permissions (OR) and
	// data (union by source range).
	pageMask := uint64(config.PGSIZE - 1)
	roundDown := func(v uint64) uint64 { return v &^ pageMask }
	roundUp := func(v uint64) uint64 { return (v + pageMask) &^ pageMask }

	existing := map[arch.VPN]*MapRegion{}
	for _, ph := range f.Progs {
		if ph.Type != elf.PT_LOAD {
			continue
		}
		perms := arch.PermU
		if ph.Flags&elf.PF_R != 0 {
			perms |= arch.PermR
		}
		if ph.Flags&elf.PF_W != 0 {
			perms |= arch.PermW
		}
		if ph.Flags&elf.PF_X != 0 {
			perms |= arch.PermX
		}

		lo := roundDown(ph.Vaddr)
		hi := roundUp(ph.Vaddr + ph.Memsz)
		startVPN := arch.VAToVPN(lo)
		endVPN := arch.VAToVPN(hi)

		for vpn := startVPN; vpn < endVPN; vpn++ {
			if r, ok := existing[vpn]; ok {
				r.Perms |= perms
				if err := remapPerms(as, vpn, r.Perms); err != nil {
					return nil, err
				}
				continue
			}
			r := NewFramed(vpn, vpn+1, perms)
			if err := as.mapRegion(r); err != nil {
				return nil, err
			}
			existing[vpn] = r
		}

		// Copy file_size bytes starting at the exact (possibly sub-page)
		// vaddr; bytes beyond file_size up to memsz stay zero because
		// frames are zeroed on allocation.
		data, derr := io.ReadAll(ph.Open())
		if derr != nil {
			return nil, fmt.Errorf("%w: %v", ErrELFInvalid, derr)
		}
		if err := copyIntoRegion(as, existing, ph.Vaddr, data); err != nil {
			return nil, err
		}
	}

	return &FromELFResult{
		AS:      as,
		UserSP:  stackTop,
		Entry:   f.Entry,
		TrapCtx: trapPPN,
	}, nil
}

// remapPerms re-installs the leaf at vpn with the union permission set
// after a later PT_LOAD segment widens an already-mapped page's perms.
func remapPerms(as *AddressSpace, vpn arch.VPN, perms arch.Perm) error {
	if _, err := as.PT.Unmap(vpn); err != nil {
		return err
	}
	r, ok := as.regionContaining(vpn)
	if !ok {
		panic("memset: remap of vpn with no owning region")
	}
	ppn := r.PPNFor(vpn)
	return as.PT.Map(vpn, ppn, perms.ToPTEFlags())
}

func (as *AddressSpace) regionContaining(vpn arch.VPN) (*MapRegion, bool) {
	for _, r := range as.Regions {
		if r.Contains(vpn) {
			return r, true
		}
	}
	return nil, false
}

// copyIntoRegion writes data into the pages covering [vaddr, vaddr+len(data))
// via the kernel's direct map of each backing frame.
func copyIntoRegion(as *AddressSpace, regions map[arch.VPN]*MapRegion, vaddr uint64, data []byte) error {
	remaining := data
	addr := vaddr
	for len(remaining) > 0 {
		vpn := arch.VAToVPN(addr)
		r, ok := regions[vpn]
		if !ok {
			return fmt.Errorf("memset: segment byte at %#x has no backing region", addr)
		}
		ppn := r.PPNFor(vpn)
		pageOff := addr & uint64(config.PGSIZE-1)
		dst := mem.PageBytes(ppn)[pageOff:]
		n := copy(dst, remaining)
		remaining = remaining[n:]
		addr += uint64(n)
	}
	return nil
}

// byteReaderAt adapts a []byte to io.ReaderAt for debug/elf.NewFile.
type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b)) {
		return 0, fmt.Errorf("memset: ELF read out of range")
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, fmt.Errorf("memset: short ELF read")
	}
	return n, nil
}
