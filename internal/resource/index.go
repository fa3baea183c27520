// Package resource holds the bilingual resource index: ingestion of
// spreadsheet sheets into immutable snapshots, atomic publication, and
// durable cache blobs for fast restarts.
package resource

import (
	"sort"
	"strings"
)

// Location is one availability fact: a resource reported (or not) on one
// island of one grid. Immutable once created.
type Location struct {
	Grid      string `json:"grid"`   // 2-char grid code, e.g. "A1"
	Island    string `json:"island"` // Island name from the header row
	Cell      string `json:"cell"`   // Cell address, e.g. "B3"
	Available bool   `json:"avail"`
}

// Entry collects all known facts about one resource under one language key.
type Entry struct {
	Title     string     `json:"title"` // Canonical display title, e.g. "Wood"
	Locations []Location `json:"info"`
}

// Index is one immutable bilingual snapshot. It is built fully off-line
// and then published as a unit; readers never see a partial build.
type Index struct {
	EN      map[string]*Entry `json:"en"`
	DE      map[string]*Entry `json:"de"`
	Grids   []string          `json:"grids"`   // sorted
	Islands []string          `json:"islands"` // sorted
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		EN: make(map[string]*Entry),
		DE: make(map[string]*Entry),
	}
}

// Keys returns the sorted union of English and German resource keys.
func (ix *Index) Keys() []string {
	seen := make(map[string]bool, len(ix.EN)+len(ix.DE))
	keys := make([]string, 0, len(ix.EN)+len(ix.DE))
	for key := range ix.EN {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	for key := range ix.DE {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// ContainsKey reports whether the lower-cased text contains any known
// resource key as a substring.
func (ix *Index) ContainsKey(text string) bool {
	lower := strings.ToLower(text)
	for key := range ix.EN {
		if strings.Contains(lower, key) {
			return true
		}
	}
	for key := range ix.DE {
		if strings.Contains(lower, key) {
			return true
		}
	}
	return false
}

// Empty reports whether the index holds no resources.
func (ix *Index) Empty() bool {
	return len(ix.EN) == 0 && len(ix.DE) == 0
}

// ENKeys returns the English keys in sorted order, for deterministic
// iteration.
func (ix *Index) ENKeys() []string {
	return sortedKeys(ix.EN)
}

// DEKeys returns the German keys in sorted order.
func (ix *Index) DEKeys() []string {
	return sortedKeys(ix.DE)
}

func sortedKeys(m map[string]*Entry) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
