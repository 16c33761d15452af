// Command mkapps packs compiled riscv64 ELF user binaries into the
// embedded app table internal/loader parses at boot, and
// statically checks that none of them import anything outside the
// kernel's user-mode surface (user/lib and the standard library's
// allocation-free subset) before it lets a bad binary anywhere near the
// image -- grounded on the same static-analysis idea as biscuit's own
// host-side build tooling, using golang.org/x/tools/go/packages instead
// of hand-rolled import-graph walking.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/tools/go/packages"
)

var allowedImportPrefixes = []string{
	"sv39kernel/user/lib",
	"unsafe",
}

func main() {
	out := flag.String("o", "internal/loader/apps.bin", "output app table path")
	flag.Parse()
	binaries := flag.Args()
	if len(binaries) == 0 {
		fmt.Fprintln(os.Stderr, "mkapps: usage: mkapps -o apps.bin app1.elf app2.elf ...")
		os.Exit(2)
	}

	for _, path := range binaries {
		if err := checkImports(path); err != nil {
			fmt.Fprintf(os.Stderr, "mkapps: %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	blobs := make([][]byte, 0, len(binaries))
	for _, path := range binaries {
		data, err := readELF(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mkapps: %s: %v\n", path, err)
			os.Exit(1)
		}
		blobs = append(blobs, data)
	}

	table := buildTable(blobs)
	if err := os.WriteFile(*out, table, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "mkapps: writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("mkapps: wrote %d app(s), %d bytes, to %s\n", len(blobs), len(table), *out)
}

// checkImports loads the package that produced the binary at elfPath's
// sibling source directory (elfPath is assumed to be "<pkgdir>/<name>")
// and rejects it if it imports anything beyond the allow-list: a user
// binary that imports, say, net or os would silently assume a host
// environment that does not exist once it is running as a bare task under
// this kernel.
func checkImports(elfPath string) error {
	dir := elfPath
	if idx := lastSlash(elfPath); idx >= 0 {
		dir = elfPath[:idx]
	}
	cfg := &packages.Config{Mode: packages.NeedImports | packages.NeedDeps}
	pkgs, err := packages.Load(cfg, dir)
	if err != nil {
		return fmt.Errorf("loading package: %w", err)
	}
	for _, pkg := range pkgs {
		for imp := range pkg.Imports {
			if !allowedImport(imp) {
				return fmt.Errorf("disallowed import %q", imp)
			}
		}
	}
	return nil
}

func allowedImport(path string) bool {
	for _, prefix := range allowedImportPrefixes {
		if path == prefix {
			return true
		}
	}
	return false
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

// readELF validates the file is a plausible riscv64 ELF before embedding
// it, using golang.org/x/sys/unix to stat it the same way a host-side
// packaging tool would check any binary artifact before shipping it.
func readELF(path string) ([]byte, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if st.Size < 4 {
		return nil, fmt.Errorf("file too small to be an ELF")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if string(data[:4]) != "\x7fELF" {
		return nil, fmt.Errorf("not an ELF file")
	}
	return data, nil
}

// buildTable lays out the table loader.EmbeddedApps parses: a count, N+1
// byte offsets, then the blobs back to back.
func buildTable(blobs [][]byte) []byte {
	n := uint64(len(blobs))
	header := make([]byte, 8*(1+n+1))
	binary.LittleEndian.PutUint64(header[0:8], n)
	offset := uint64(0)
	binary.LittleEndian.PutUint64(header[8:16], offset)
	for i, b := range blobs {
		offset += uint64(len(b))
		binary.LittleEndian.PutUint64(header[8+8*(uint64(i)+1):16+8*(uint64(i)+1)], offset)
	}
	out := header
	for _, b := range blobs {
		out = append(out, b...)
	}
	return out
}
