package query

import (
	"strings"

	"github.com/pfial/atlas-resource-bot/internal/logger"
	"github.com/pfial/atlas-resource-bot/internal/resource"
	"github.com/pfial/atlas-resource-bot/internal/sliceutil"
)

// Resolver answers resource-location questions over index snapshots.
type Resolver struct {
	log *logger.Logger
}

// NewResolver creates a resolver.
func NewResolver(log *logger.Logger) *Resolver {
	return &Resolver{log: log.WithModule("query")}
}

// keyMatch is one matched resource key with its entry.
type keyMatch struct {
	key   string
	entry *resource.Entry
}

// Matching is substring-based: a key counts as present if it appears
// anywhere in the lower-cased text, tolerating free word order.
// Overlapping keys multi-match; all matches are reported.

// Resolve looks up a resource with no grid constraint.
func (r *Resolver) Resolve(idx *resource.Index, text string) Result {
	matched := matchEntries(idx, text)
	if len(matched) == 0 {
		return NotFound{}
	}

	var available []*resource.Entry
	titles := make([]string, 0, len(matched))
	for _, m := range matched {
		titles = append(titles, m.entry.Title)
		if hasAvailable(m.entry) {
			available = append(available, m.entry)
		}
	}

	if len(available) == 0 {
		return NotYetCatalogued{Title: strings.Join(titles, "/")}
	}

	matches := make([]Match, 0, len(available))
	for _, entry := range available {
		location := formatLocations(entry)
		matches = append(matches, Match{Title: entry.Title, Location: location})
		r.log.WithField("title", entry.Title).WithField("location", location).Info("Found resource")
	}
	return Found{Matches: matches}
}

// ResolveInGrid looks up a resource constrained to one grid code. When
// the resource is unavailable there, it falls back to the grid set of a
// free lookup and reports where else it can be found.
func (r *Resolver) ResolveInGrid(idx *resource.Index, text, grid string) Result {
	matched := matchEntries(idx, text)

	// Multiple keys can match; the longest key is the most specific,
	// so its title wins.
	var title string
	var bestLen int
	var islands []string
	for _, m := range matched {
		if len(m.key) > bestLen {
			bestLen = len(m.key)
			title = m.entry.Title
		}
		for _, loc := range m.entry.Locations {
			if loc.Grid == grid && loc.Available {
				islands = append(islands, loc.Island)
			}
		}
	}

	if len(islands) > 0 {
		return FoundInGrid{Title: title, Grid: grid, Islands: sliceutil.SortedUnique(islands)}
	}

	otherGrids := r.resolveGrids(idx, text)
	if len(otherGrids) == 0 {
		return NotFound{}
	}
	return WrongGrid{Title: title, Grid: grid, OtherGrids: otherGrids}
}

// resolveGrids returns the deduplicated, sorted grid codes where any
// matched resource is available. Used by the wrong-grid fallback.
func (r *Resolver) resolveGrids(idx *resource.Index, text string) []string {
	var grids []string
	for _, m := range matchEntries(idx, text) {
		for _, loc := range m.entry.Locations {
			if loc.Available {
				grids = append(grids, loc.Grid)
			}
		}
	}
	if len(grids) == 0 {
		return nil
	}
	return sliceutil.SortedUnique(grids)
}

// matchEntries collects the entries of every key, in either language,
// that is a literal substring of the lower-cased text. English keys
// first, then German, each in sorted key order, so results are
// deterministic.
func matchEntries(idx *resource.Index, text string) []keyMatch {
	lower := strings.ToLower(text)
	var matched []keyMatch
	seen := make(map[string]bool)

	for _, key := range idx.ENKeys() {
		if strings.Contains(lower, key) {
			matched = append(matched, keyMatch{key: key, entry: idx.EN[key]})
			seen[key] = true
		}
	}
	for _, key := range idx.DEKeys() {
		// An identical key in both languages describes the same
		// resource; the English entry already covers it.
		if !seen[key] && strings.Contains(lower, key) {
			matched = append(matched, keyMatch{key: key, entry: idx.DE[key]})
		}
	}
	return matched
}

// hasAvailable reports whether the entry has at least one available
// location. Availability is one boolean concept applied symmetrically
// to both language maps.
func hasAvailable(entry *resource.Entry) bool {
	for _, loc := range entry.Locations {
		if loc.Available {
			return true
		}
	}
	return false
}

// formatLocations groups available islands by grid, first-seen order,
// producing "A1 (IslandX, IslandY), B2 (IslandZ)".
func formatLocations(entry *resource.Entry) string {
	gridOrder := make([]string, 0, 4)
	gridIslands := make(map[string][]string)

	for _, loc := range entry.Locations {
		if !loc.Available {
			continue
		}
		if _, seen := gridIslands[loc.Grid]; !seen {
			gridOrder = append(gridOrder, loc.Grid)
		}
		gridIslands[loc.Grid] = append(gridIslands[loc.Grid], loc.Island)
	}

	parts := make([]string, 0, len(gridOrder))
	for _, grid := range gridOrder {
		parts = append(parts, grid+" ("+strings.Join(gridIslands[grid], ", ")+")")
	}
	return strings.Join(parts, ", ")
}
