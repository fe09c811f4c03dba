// Package sheets appends booking rows to a Google Sheets worksheet.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ykres/ai-salon-assistant/internal/domain"
	"github.com/ykres/ai-salon-assistant/internal/logging"
)

const (
	driveReadonlyScope = "https://www.googleapis.com/auth/drive.readonly"

	newSheetRows = 1000
	newSheetCols = 20
)

// Client appends rows to one worksheet of one spreadsheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	worksheet     string
	logger        *slog.Logger
}

// NewClient authenticates with a service account key file and resolves the
// target worksheet. An empty worksheet title selects the first sheet; a
// missing titled worksheet is created.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID, worksheet string, logger *slog.Logger) (*Client, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope, driveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return newClient(ctx, service, spreadsheetID, worksheet, logger)
}

func newClient(ctx context.Context, service *sheets.Service, spreadsheetID, worksheet string, logger *slog.Logger) (*Client, error) {
	c := &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logging.Component(logger, "sheets").With("spreadsheet_id", spreadsheetID),
	}
	title, err := c.resolveWorksheet(ctx, worksheet)
	if err != nil {
		return nil, err
	}
	c.worksheet = title
	return c, nil
}

// Worksheet returns the resolved worksheet title.
func (c *Client) Worksheet() string {
	return c.worksheet
}

func (c *Client) resolveWorksheet(ctx context.Context, title string) (string, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", &domain.TransportError{Op: "open spreadsheet", Err: err}
	}

	if title == "" {
		if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
			return "", fmt.Errorf("spreadsheet %s has no worksheets", c.spreadsheetID)
		}
		return spreadsheet.Sheets[0].Properties.Title, nil
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return title, nil
		}
	}

	c.logger.Info("worksheet not found, creating it", "worksheet", title)
	_, err = c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    newSheetRows,
						ColumnCount: newSheetCols,
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return "", &domain.TransportError{Op: "create worksheet", Err: err}
	}
	return title, nil
}

// AppendRow appends one row after the last non-empty row of the worksheet.
// Values are interpreted as if typed by a user.
func (c *Client) AppendRow(ctx context.Context, row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, a1Range(c.worksheet), &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return &domain.TransportError{Op: "append row", Err: err}
	}
	return nil
}

func a1Range(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'!A1"
}
