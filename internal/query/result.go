// Package query resolves free-text resource questions against an index
// snapshot. All entry points are pure functions of (text, snapshot); the
// Resolver only carries a logger.
package query

// Result is the closed set of resolver outcomes. Callers switch on the
// concrete type.
type Result interface {
	result()
}

// Match pairs a resource title with its formatted locations, e.g.
// "A1 (IslandX, IslandY), B2 (IslandZ)".
type Match struct {
	Title    string
	Location string
}

// Found reports one entry per matched resource with availability data.
type Found struct {
	Matches []Match
}

// NotFound reports that no resource key matched the text, or, for
// grid-scoped lookups, that a matched resource is available nowhere.
type NotFound struct{}

// NotYetCatalogued reports that keys matched but none of them has any
// available location. Title joins all matched display titles with "/".
type NotYetCatalogued struct {
	Title string
}

// FoundInGrid reports the islands of one grid where the resource is
// available.
type FoundInGrid struct {
	Title   string
	Grid    string
	Islands []string
}

// WrongGrid reports that the resource is unavailable in the requested
// grid but available in others.
type WrongGrid struct {
	Title      string
	Grid       string
	OtherGrids []string // sorted, unique
}

func (Found) result()            {}
func (NotFound) result()         {}
func (NotYetCatalogued) result() {}
func (FoundInGrid) result()      {}
func (WrongGrid) result()        {}
