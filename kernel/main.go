// Package kernel wires together the boot and init sequence
// and owns the process-lifetime global singletons: the frame
// allocator, kernel heap, kernel address space, task manager, and the
// trampoline globals the assembly reads. Like biscuit's top-level
// kernel/chentry.go package, this is where everything built in internal/
// gets assembled into one running system; unlike chentry.go (a host-side
// ELF-patching tool), this package is the kernel binary's own entry.
package kernel

import (
	"unsafe"

	"sv39kernel/internal/arch"
	"sv39kernel/internal/config"
	"sv39kernel/internal/console"
	"sv39kernel/internal/loader"
	"sv39kernel/internal/mem"
	"sv39kernel/internal/memset"
	"sv39kernel/internal/sbi"
	"sv39kernel/internal/task"
	"sv39kernel/internal/trap"
	"sv39kernel/internal/traphandler"
)

// Globals populated once during boot and never torn down:
// frame allocator, kernel heap, kernel address space, task manager, and
// the three trampoline-facing values __alltraps/__restore read indirectly
// through each task's TrapFrame (KernelSatp/TrapHandler) or that boot
// installs directly into CSRs (sscratch).
var (
	Heap     *mem.KernelHeap
	Frames   *mem.FrameAllocator
	KernelAS *memset.AddressSpace
	Tasks    *task.Manager

	kernelSatp        uint64
	trapHandlerVA     uint64
	restoreTrampVA    uint64
	alltrapsTrampVA   uint64
)

// installTrampoline copies __alltraps/__restore's compiled machine code
// (linked at their own kernel-text addresses) into the shared physical
// TrampolineFrame, and returns stvec's target and the restore path's
// virtual address once that frame is mapped at config.TrampolineVA in
// every address space. The trampoline page is position-independent:
// stvec is set to TRAMPOLINE + (__alltraps - strampoline) and a return to
// user mode jumps to TRAMPOLINE + (__restore - strampoline). trap_entry
// itself is ordinary kernel text (identity-mapped, reached only after
// satp is already back on the kernel address space) and needs no such
// remapping.
func installTrampoline() (stvecVA, restoreVA, trapHandlerVA uint64) {
	start := trampolineAllTrapsAddr()
	end := trampolineAllTrapsEndAddr()
	restoreOff := trampolineRestoreAddr() - start

	code := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(start))), int(end-start))
	memset.SetTrampolineCode(code)

	return config.TrampolineVA, config.TrampolineVA + restoreOff, trapEntryAddr()
}

// KernelMain is the kernel's entry point, invoked by the external
// bootloader stub with BSS already cleared and sp already set. hartid is
// only logged and dtb is unused: this kernel targets a single hart and a
// fixed, un-parsed device-tree layout.
func KernelMain(hartid, dtb uint64) {
	console.Info("booting on hart %d", hartid)

	// 1. Kernel heap, before the frame allocator: the frame allocator's own
	// bitmap is carved out of this heap rather than the Go runtime's
	// allocator.
	Heap = mem.NewKernelHeap(uintptr(config.HeapStart), uintptr(config.HeapSize))

	// 2. Frame allocator over [HEAP_END, MEMORY_END), bitmap backed by Heap.
	Frames = mem.NewFrameAllocator(
		arch.PAToPPN(config.HeapEnd),
		arch.PAToPPN(config.MemEnd),
		mem.ZeroFrame,
		Heap,
	)

	// 3. Record the trampoline's machine code so the first MapTrampoline
	// call (inside NewKernel) copies it into the shared physical frame,
	// then build the kernel address space and activate paging.
	alltrapsTrampVA, restoreTrampVA, trapHandlerVA = installTrampoline()

	sections := linkerSections()
	var err error
	KernelAS, err = memset.NewKernel(Frames, sections, config.MaxTasks)
	if err != nil {
		console.Panicf("building kernel address space: %v", err)
	}
	KernelAS.Activate()
	kernelSatp = KernelAS.Token()

	// 4. Install trap vector, initialize sscratch.
	arch.WriteStvec(alltrapsTrampVA)
	arch.WriteSscratch(0) // no task has a TrapFrame parked here yet

	// 5. Parse the embedded app table, build one TCB per app, enqueue.
	Tasks = task.NewManager()
	apps := loader.EmbeddedApps()
	for i, img := range apps {
		result, ferr := memset.FromELF(Frames, img)
		if ferr != nil {
			console.Panicf("app %d: %v", i, ferr)
		}
		pid := Tasks.AllocPid()
		t := task.NewTCB(pid, result, kernelSatp, i, restoreTrampVA, trapHandlerVA)
		Tasks.Spawn(t)
		console.Info("loaded app %d as pid %d, entry=%#x", i, pid, result.Entry)
	}

	// 6. Enable sie.STIE, but not sstatus.SIE -- interrupts arrive only
	// once the first sret restores SPIE=1.
	arch.EnableTimerInterrupt()

	// 7. Arm the first timer, then switch into the first task.
	sbi.SetTimer(arch.ReadTime() + config.TicksPerSlice)
	if err := Tasks.Yield(); err != nil {
		console.Info("no tasks to run, shutting down")
		dumpExitHistory()
		sbi.Shutdown()
	}
	// Unreachable: the first Switch above transfers control into
	// trampoline_restore for the first task and never returns here. If it
	// somehow did, that is itself a fatal invariant violation.
	console.Panicf("KernelMain fell through past the first schedule")
}

// trapGoEntry is called by kernel/trapentry_riscv64.s with a plain CALL
// and no arguments: the trap frame is always at the fixed virtual address
// config.TrapCtxVA (already running on the kernel stack, in the kernel
// address space, per the trampoline's contract), so nothing needs to
// cross the asm-to-Go boundary in a register. It never returns to its
// caller: it always falls through to the restore path of whichever task
// the scheduler leaves Running.
func trapGoEntry() {
	tf := (*trap.Frame)(unsafePointerFromVA(uintptr(config.TrapCtxVA)))
	scause := trap.Cause(arch.ReadSCause())
	stval := arch.ReadSTval()

	traphandler.Handle(tf, scause, stval, Tasks)

	cur, ok := Tasks.Current()
	if !ok {
		dumpExitHistory()
		sbi.Shutdown()
		return
	}
	jumpToRestore(restoreTrampVA, config.TrapCtxVA, cur.AS.Token())
}

func dumpExitHistory() {
	for _, r := range Tasks.ExitHistory() {
		console.Info("pid %d exited with code %d", r.Pid, r.Code)
	}
}
