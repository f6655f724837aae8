package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// NewService builds a read-only Sheets API client from service-account
// credentials JSON.
func NewService(ctx context.Context, serviceAccountJSON []byte) (*sheetsapi.Service, error) {
	creds, err := google.CredentialsFromJSON(ctx, serviceAccountJSON, sheetsapi.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return svc, nil
}

// readSheet fetches every populated cell of one worksheet.
func readSheet(ctx context.Context, svc *sheetsapi.Service, spreadsheetID, worksheet string) ([][]interface{}, error) {
	resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, worksheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", worksheet, err)
	}
	return resp.Values, nil
}

// cellString renders one cell as trimmed text. The Values API can hand back
// numbers for numeric cells, so everything goes through fmt.
func cellString(row []interface{}, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return trimCell(fmt.Sprint(row[index]))
}

func trimCell(s string) string {
	return strings.TrimSpace(s)
}
