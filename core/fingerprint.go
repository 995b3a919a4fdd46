package core

import (
	"encoding/hex"
	"fmt"
	"os"
	"sort"

	"github.com/go-crypt/x/blake2b"
)

// FingerprintFiles returns a digest over the given file paths and their
// current modification times and sizes. Identical inputs yield identical
// fingerprints; touching, resizing, adding, or removing any file changes
// the fingerprint. Missing files contribute a fixed marker so the
// fingerprint still changes when a file appears later.
func FingerprintFiles(paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	h, _ := blake2b.New(16, nil)
	for _, p := range sorted {
		h.Write([]byte(p))
		info, err := os.Stat(p)
		if err != nil {
			h.Write([]byte("|missing;"))
			continue
		}
		fmt.Fprintf(h, "|%d|%d;", info.ModTime().UnixNano(), info.Size())
	}
	return hex.EncodeToString(h.Sum(nil))
}
