package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"dogmeet/internal/config"
	"dogmeet/internal/metrics"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	valueInputOption = "USER_ENTERED"
	insertDataOption = "INSERT_ROWS"

	// Data starts under the header row and spans the seven appointment columns.
	dataRange = "%s!A2:G"
	pingRange = "%s!A1"
)

// ErrMissingSpreadsheetID is returned by every operation when no spreadsheet is configured.
var ErrMissingSpreadsheetID = errors.New("SPREADSHEET_ID environment variable is not set")

// SheetsStore keeps appointment rows in one tab of a Google spreadsheet.
type SheetsStore struct {
	writer        *sheets.Service
	reader        *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsStore authenticates with the service-account key in
// cfg.CredentialsFile. Appends use the read/write scope, listings the
// read-only one.
func NewSheetsStore(ctx context.Context, cfg config.GoogleConfig) (*SheetsStore, error) {
	credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	writeClient, err := jwtClient(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, err
	}
	readClient, err := jwtClient(ctx, credentialsJSON, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, err
	}

	writer, err := sheets.NewService(ctx, option.WithHTTPClient(writeClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}
	reader, err := sheets.NewService(ctx, option.WithHTTPClient(readClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return newSheetsStore(writer, reader, cfg), nil
}

func newSheetsStore(writer, reader *sheets.Service, cfg config.GoogleConfig) *SheetsStore {
	return &SheetsStore{
		writer:        writer,
		reader:        reader,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}
}

func jwtClient(ctx context.Context, credentialsJSON []byte, scope string) (*http.Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, scope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}
	return jwtConfig.Client(ctx), nil
}

// AppendRow inserts row below the last populated row of the data range.
func (s *SheetsStore) AppendRow(ctx context.Context, row []string) (err error) {
	defer func(start time.Time) { metrics.ObserveSheets("append", start, err) }(time.Now())

	if s.spreadsheetID == "" {
		return ErrMissingSpreadsheetID
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{values},
	}

	_, err = s.writer.Spreadsheets.Values.Append(s.spreadsheetID, s.dataRange(), valueRange).
		ValueInputOption(valueInputOption).
		InsertDataOption(insertDataOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// ListRows returns every populated row of the data range as strings.
func (s *SheetsStore) ListRows(ctx context.Context) (rows [][]string, err error) {
	defer func(start time.Time) { metrics.ObserveSheets("list", start, err) }(time.Now())

	if s.spreadsheetID == "" {
		return nil, ErrMissingSpreadsheetID
	}

	resp, err := s.reader.Spreadsheets.Values.Get(s.spreadsheetID, s.dataRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get rows: %w", err)
	}

	rows = make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		cells := make([]string, len(raw))
		for i, v := range raw {
			cells[i] = cellString(v)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// Ping reads a single cell to check the spreadsheet is reachable.
func (s *SheetsStore) Ping(ctx context.Context) error {
	if s.spreadsheetID == "" {
		return ErrMissingSpreadsheetID
	}
	_, err := s.reader.Spreadsheets.Values.Get(s.spreadsheetID, fmt.Sprintf(pingRange, s.sheetName)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

func (s *SheetsStore) dataRange() string {
	return fmt.Sprintf(dataRange, s.sheetName)
}

// ServiceAccountEmail returns the client_email of a service-account key file,
// the address the spreadsheet has to be shared with.
func ServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}

	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
