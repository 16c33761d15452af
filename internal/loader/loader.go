// Package loader parses the embedded user-app table: a 64-bit
// count N, N+1 64-bit byte offsets delimiting N ELF images, followed by
// the images themselves back to back. The table is built by cmd/mkapps
// and baked into the kernel binary via go:embed, mirroring how biscuit's
// own chentry.go host tool patches a fixed set of user binaries into the
// kernel image before boot rather than loading them from a filesystem --
// this kernel has no filesystem.
package loader

import (
	_ "embed"
	"encoding/binary"
)

//go:embed apps.bin
var appTable []byte

const headerWordSize = 8

// EmbeddedApps returns one []byte slice per ELF image in the embedded app
// table, in table order (table order is load/pid order). An empty table
// yields no apps, which is a valid boot configuration: the scheduler has
// nothing to run and the kernel shuts down immediately.
func EmbeddedApps() [][]byte {
	return parseAppTable(appTable)
}

func parseAppTable(data []byte) [][]byte {
	if len(data) < headerWordSize {
		return nil
	}
	n := binary.LittleEndian.Uint64(data[0:8])
	offsetsStart := headerWordSize
	offsetsLen := int(n+1) * headerWordSize
	if offsetsStart+offsetsLen > len(data) {
		panic("loader: app table offsets run past the embedded image")
	}
	offsets := make([]uint64, n+1)
	for i := range offsets {
		off := offsetsStart + i*headerWordSize
		offsets[i] = binary.LittleEndian.Uint64(data[off : off+8])
	}
	blobsBase := offsetsStart + offsetsLen
	apps := make([][]byte, 0, n)
	for i := uint64(0); i < n; i++ {
		start := blobsBase + int(offsets[i])
		end := blobsBase + int(offsets[i+1])
		if start < blobsBase || end > len(data) || start > end {
			panic("loader: app table entry out of range")
		}
		apps = append(apps, data[start:end])
	}
	return apps
}
