package versions

import "sync"

// Index is the in-memory mapping from gem name to its known version strings.
//
// Versions are stored in append order, not sorted. Duplicate version strings
// are possible and preserved; a removal deletes every occurrence of the
// exact string. Entries are created lazily on first addition and only shrink
// through removal tokens or Reset. Keys are exact, case-sensitive gem names.
//
// All methods are safe for concurrent use by multiple goroutines.
type Index struct {
	mu   sync.RWMutex
	gems map[string][]string
}

// NewIndex creates an empty version index.
func NewIndex() *Index {
	return &Index{gems: make(map[string][]string)}
}

// Add appends version to the gem's list, creating the entry if absent.
func (ix *Index) Add(gem, version string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.gems[gem] = append(ix.gems[gem], version)
}

// Remove deletes all occurrences of version from the gem's list.
// Removing a version that isn't present is a no-op.
func (ix *Index) Remove(gem, version string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	current, ok := ix.gems[gem]
	if !ok {
		return
	}
	kept := current[:0]
	for _, v := range current {
		if v != version {
			kept = append(kept, v)
		}
	}
	ix.gems[gem] = kept
}

// Versions returns a copy of the gem's version list in append order.
// The second return value reports whether the gem is known at all; a gem
// whose every version was yanked is still known, with an empty list.
func (ix *Index) Versions(gem string) ([]string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	current, ok := ix.gems[gem]
	if !ok {
		return nil, false
	}
	out := make([]string, len(current))
	copy(out, current)
	return out, true
}

// Len returns the number of gems currently tracked.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.gems)
}

// Reset discards all entries.
func (ix *Index) Reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.gems = make(map[string][]string)
}
