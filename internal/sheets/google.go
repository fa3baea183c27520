package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pfial/atlas-resource-bot/internal/apperrors"
)

// GoogleSource reads a spreadsheet through the Google Sheets API with
// read-only scope.
type GoogleSource struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewGoogleSource creates a Sheets API client from a service-account
// credentials file.
func NewGoogleSource(ctx context.Context, credentialsPath, spreadsheetID string) (*GoogleSource, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleSource{service: service, spreadsheetID: spreadsheetID}, nil
}

// SheetNames returns the titles of all sheets in the spreadsheet.
func (g *GoogleSource) SheetNames(ctx context.Context) ([]string, error) {
	if g.service == nil {
		return nil, apperrors.ErrNotConnected
	}

	meta, err := g.service.Spreadsheets.Get(g.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, apperrors.NewTransportError("get metadata", err)
	}

	names := make([]string, 0, len(meta.Sheets))
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil {
			names = append(names, sheet.Properties.Title)
		}
	}
	return names, nil
}

// Rows returns the cell grid of one sheet as strings.
func (g *GoogleSource) Rows(ctx context.Context, sheetName string) ([][]string, error) {
	if g.service == nil {
		return nil, apperrors.ErrNotConnected
	}

	resp, err := g.service.Spreadsheets.Values.Get(g.spreadsheetID, sheetName).
		Context(ctx).Do()
	if err != nil {
		return nil, apperrors.NewTransportError("get values", err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}
