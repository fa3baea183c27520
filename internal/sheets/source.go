// Package sheets provides the spreadsheet transport boundary.
// The core consumes the Source interface; the Google Sheets client is the
// production implementation.
package sheets

import "context"

// Source fetches raw spreadsheet data. Implementations may fail with
// transport errors; ingestion treats a per-sheet failure as "skip this
// sheet for this cycle".
type Source interface {
	// SheetNames returns the titles of all sheets in the document.
	SheetNames(ctx context.Context) ([]string, error)

	// Rows returns the cell grid of one sheet. Rows may be ragged;
	// trailing empty cells are not padded.
	Rows(ctx context.Context, sheetName string) ([][]string, error)
}
