package resource

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pfial/atlas-resource-bot/internal/apperrors"
	"github.com/pfial/atlas-resource-bot/internal/logger"
)

// Sheet layout: row 0 holds island names in columns >= 1 (column 0 is a
// label and ignored). Every later row holds "<english>/<german>" in
// column 0 and an availability flag per island column.

var nodesSuffix = regexp.MustCompile(`\s*\(nodes\)$`)

// Builder accumulates sheet contributions into a new Index. The index
// under construction is private to the builder, so readers of the
// previously published snapshot are never affected.
type Builder struct {
	index   *Index
	grids   map[string]bool
	islands map[string]bool
	log     *logger.Logger
}

// NewBuilder creates a builder for one ingestion pass.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{
		index:   NewIndex(),
		grids:   make(map[string]bool),
		islands: make(map[string]bool),
		log:     log.WithModule("resource"),
	}
}

// IsTemplateSheet reports whether a sheet is a template and must be
// skipped during ingestion.
func IsTemplateSheet(name string) bool {
	return strings.Contains(strings.ToLower(name), "template")
}

// AddSheet ingests one sheet worth of rows. A structural failure aborts
// only this sheet; previously added sheets keep their contributions.
func (b *Builder) AddSheet(name string, rows [][]string) error {
	if IsTemplateSheet(name) {
		return nil
	}
	if len(name) < 2 {
		return apperrors.NewSheetError(name, apperrors.ErrSheetMalformed)
	}
	if len(rows) < 2 {
		// Header row or data rows absent.
		return apperrors.NewSheetError(name, apperrors.ErrSheetMalformed)
	}

	header := rows[0]
	grid := name[:2]

	for rowNum := 1; rowNum < len(rows); rowNum++ {
		row := rows[rowNum]
		if len(row) == 0 {
			continue
		}

		keyEN, keyDE, title := normalizeNames(row[0])
		b.insertEntry(b.index.EN, keyEN, title)
		b.insertEntry(b.index.DE, keyDE, title)

		// A rejected key drops only its own language side; the other
		// entry still records the row's facts.
		entryEN, entryDE := b.index.EN[keyEN], b.index.DE[keyDE]
		if entryEN == nil && entryDE == nil {
			continue
		}

		for col := 1; col < len(row) && col < len(header); col++ {
			island := header[col]
			loc := Location{
				Grid:      grid,
				Island:    island,
				Cell:      cellAddress(col, rowNum),
				Available: strings.EqualFold(strings.TrimSpace(row[col]), "true"),
			}

			b.grids[grid] = true
			b.islands[island] = true

			if entryEN != nil {
				entryEN.Locations = append(entryEN.Locations, loc)
			}
			if entryDE != nil {
				entryDE.Locations = append(entryDE.Locations, loc)
			}
		}
	}

	return nil
}

// Build finalizes the index. The builder must not be reused afterwards.
func (b *Builder) Build() *Index {
	for grid := range b.grids {
		b.index.Grids = append(b.index.Grids, grid)
	}
	for island := range b.islands {
		b.index.Islands = append(b.index.Islands, island)
	}
	sort.Strings(b.index.Grids)
	sort.Strings(b.index.Islands)

	b.log.WithFields(map[string]any{
		"resources_en": len(b.index.EN),
		"resources_de": len(b.index.DE),
		"grids":        len(b.index.Grids),
		"islands":      len(b.index.Islands),
	}).Debug("Index built")

	return b.index
}

// insertEntry inserts a fresh entry unless the key is empty, already
// present, or still carries a parenthesis after normalization
// (ambiguous/variant names are never indexed).
func (b *Builder) insertEntry(m map[string]*Entry, key, title string) {
	if key == "" || strings.Contains(key, "(") {
		return
	}
	if _, exists := m[key]; exists {
		return
	}
	m[key] = &Entry{Title: title}
}

// normalizeNames derives the English and German keys from a column-0
// cell. The text is slash-delimited; without a slash both names are the
// same. English drops a "(nodes)" suffix, German a trailing "ader".
// The canonical display title is the English segment with its original
// casing.
func normalizeNames(cell string) (keyEN, keyDE, title string) {
	parts := strings.Split(cell, "/")
	title = strings.TrimSpace(parts[0])
	keyEN = strings.ToLower(title)
	keyDE = strings.TrimSpace(strings.ToLower(parts[len(parts)-1]))

	keyEN = nodesSuffix.ReplaceAllString(keyEN, "")
	keyDE = strings.TrimSuffix(keyDE, "ader")

	return keyEN, keyDE, title
}

// cellAddress renders a spreadsheet address from 0-based column and
// 1-based data row number, e.g. col 1 row 3 -> "B3".
func cellAddress(col, rowNum int) string {
	return string(rune('A'+col)) + strconv.Itoa(rowNum)
}
