package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/sjperalta/billing-api/internal/models"
)

// SheetsStore keeps the billing table in the first worksheet of a Google
// spreadsheet, accessed with a service account.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsStore authorizes with the service account key at credentialsFile
// (spreadsheet read/write scope). An empty credentialsFile leaves
// authentication to the extra client options.
func NewSheetsStore(ctx context.Context, spreadsheetID, credentialsFile string, opts ...option.ClientOption) (*SheetsStore, error) {
	if credentialsFile != "" {
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account file: %w", err)
		}
		conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("invalid service account file: %w", err)
		}
		opts = append([]option.ClientOption{option.WithHTTPClient(conf.Client(ctx))}, opts...)
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets client: %w", err)
	}
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsStore) Load(ctx context.Context) (models.Table, error) {
	title, err := s.firstSheet(ctx)
	if err != nil {
		return models.Table{}, &StoreError{Backend: "sheets", Op: "load", Err: err}
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(title)).Context(ctx).Do()
	if err != nil {
		return models.Table{}, &StoreError{Backend: "sheets", Op: "load", Err: err}
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return models.Table{}, nil
	}
	return DecodeRows(rows[0], rows[1:]), nil
}

func (s *SheetsStore) Save(ctx context.Context, table models.Table) error {
	title, err := s.firstSheet(ctx)
	if err != nil {
		return &StoreError{Backend: "sheets", Op: "save", Err: err}
	}
	rng := quoteSheet(title)

	values := make([][]interface{}, 0, len(table)+1)
	values = append(values, toInterfaces(Header()))
	for _, row := range EncodeRows(table) {
		values = append(values, toInterfaces(row))
	}

	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return &StoreError{Backend: "sheets", Op: "save", Err: fmt.Errorf("clear: %w", err)}
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return &StoreError{Backend: "sheets", Op: "save", Err: fmt.Errorf("update: %w", err)}
	}
	return nil
}

func (s *SheetsStore) firstSheet(ctx context.Context) (string, error) {
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", errors.New("spreadsheet has no worksheets")
	}
	return ss.Sheets[0].Properties.Title, nil
}

func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toInterfaces(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
