package naming

import (
	"fmt"
	"path"
	"strings"
	"sync"
)

// EntryNamer hands out unique archive entry names. Two uploads with the same
// stem would otherwise overwrite each other when the archive is extracted, so
// later claims get a " - dupN" suffix. Comparison is case-insensitive because
// archives are commonly extracted onto case-insensitive filesystems.
// All methods are goroutine-safe.
type EntryNamer struct {
	mu       sync.Mutex
	used     map[string]bool // lowercased names already handed out
	counters map[string]int  // lowercased requested name -> next dup counter
}

// NewEntryNamer creates a ready-to-use namer.
func NewEntryNamer() *EntryNamer {
	return &EntryNamer{
		used:     make(map[string]bool),
		counters: make(map[string]int),
	}
}

// Claim returns requested if it is still free, otherwise the first free
// "<stem> - dupN<ext>" variant.
func (n *EntryNamer) Claim(requested string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	key := strings.ToLower(requested)
	if !n.used[key] {
		n.used[key] = true
		return requested
	}

	ext := path.Ext(requested)
	stem := strings.TrimSuffix(requested, ext)

	counter := n.counters[key]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := fmt.Sprintf("%s - dup%d%s", stem, counter, ext)
		ck := strings.ToLower(candidate)
		if !n.used[ck] {
			n.used[ck] = true
			n.counters[key] = counter + 1
			return candidate
		}
		counter++
	}
}
