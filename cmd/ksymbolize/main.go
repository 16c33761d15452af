// Command ksymbolize turns a raw kernel-address sample trace (for example
// one sampled by re-arming the timer at a known cadence and recording
// sepc on every tick) into a pprof profile with symbol names resolved
// against the kernel ELF, so the panic-path diagnostics in
// internal/diag/disasm have somewhere richer to go than a console dump.
package main

import (
	"debug/elf"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/google/pprof/profile"
)

func main() {
	kernelELF := flag.String("kernel", "", "path to the kernel ELF image")
	tracePath := flag.String("trace", "", "path to a newline-separated hex address trace")
	out := flag.String("o", "out.pprof", "output pprof profile path")
	flag.Parse()

	if *kernelELF == "" || *tracePath == "" {
		fmt.Fprintln(os.Stderr, "ksymbolize: usage: ksymbolize -kernel kernel.elf -trace addrs.txt -o out.pprof")
		os.Exit(2)
	}

	syms, err := loadSymbols(*kernelELF)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ksymbolize: %v\n", err)
		os.Exit(1)
	}

	addrs, err := readTrace(*tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ksymbolize: %v\n", err)
		os.Exit(1)
	}

	prof := buildProfile(syms, addrs)
	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ksymbolize: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := prof.Write(f); err != nil {
		fmt.Fprintf(os.Stderr, "ksymbolize: writing profile: %v\n", err)
		os.Exit(1)
	}
}

type symbol struct {
	addr uint64
	name string
}

func loadSymbols(path string) ([]symbol, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening kernel ELF: %w", err)
	}
	defer f.Close()

	raw, err := f.Symbols()
	if err != nil {
		return nil, fmt.Errorf("reading symbol table: %w", err)
	}
	syms := make([]symbol, 0, len(raw))
	for _, s := range raw {
		if s.Value == 0 || s.Name == "" {
			continue
		}
		syms = append(syms, symbol{addr: s.Value, name: s.Name})
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].addr < syms[j].addr })
	return syms, nil
}

func resolve(syms []symbol, addr uint64) string {
	i := sort.Search(len(syms), func(i int) bool { return syms[i].addr > addr })
	if i == 0 {
		return fmt.Sprintf("%#x", addr)
	}
	return syms[i-1].name
}

func readTrace(path string) ([]uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	var addrs []uint64
	var cur uint64
	have := false
	for _, b := range data {
		switch {
		case b >= '0' && b <= '9':
			cur = cur*16 + uint64(b-'0')
			have = true
		case b >= 'a' && b <= 'f':
			cur = cur*16 + uint64(b-'a'+10)
			have = true
		case b >= 'A' && b <= 'F':
			cur = cur*16 + uint64(b-'A'+10)
			have = true
		default:
			if have {
				addrs = append(addrs, cur)
			}
			cur, have = 0, false
		}
	}
	if have {
		addrs = append(addrs, cur)
	}
	return addrs, nil
}

func buildProfile(syms []symbol, addrs []uint64) *profile.Profile {
	counts := map[string]int64{}
	for _, a := range addrs {
		counts[resolve(syms, a)]++
	}

	functions := make(map[string]*profile.Function)
	var locs []*profile.Location
	var samples []*profile.Sample
	var nextID uint64 = 1

	for name, count := range counts {
		fn, ok := functions[name]
		if !ok {
			fn = &profile.Function{ID: nextID, Name: name}
			nextID++
			functions[name] = fn
		}
		loc := &profile.Location{
			ID:   nextID,
			Line: []profile.Line{{Function: fn}},
		}
		nextID++
		locs = append(locs, loc)
		samples = append(samples, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{count},
		})
	}

	fns := make([]*profile.Function, 0, len(functions))
	for _, fn := range functions {
		fns = append(fns, fn)
	}

	return &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "samples", Unit: "count"}},
		Sample:     samples,
		Location:   locs,
		Function:   fns,
	}
}
