// Package sheets appends finalized reimbursement rows to the tracking
// spreadsheet and allocates sequential request IDs from it.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	sheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/form"
)

// Client writes to one configured sheet within one spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

func New(ctx context.Context, cfg config.SheetsConfig, credentialsFile string) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets.spreadsheet_id is not configured")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	name := cfg.SheetName
	if name == "" {
		name = "Sheet1"
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetName: name}, nil
}

// NextID scans column A and returns one more than the largest numeric value
// found. Header rows and blanks are ignored. An empty sheet yields 1.
func (c *Client) NextID(ctx context.Context) (int64, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read id column: %w", err)
	}
	var max int64
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		s, ok := row[0].(string)
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

// Append adds one row after the existing data. Values are written
// USER_ENTERED so the amount and date columns take their sheet formats.
func (c *Client) Append(ctx context.Context, row form.SheetRow) error {
	rng := fmt.Sprintf("%s!A:T", c.sheetName)
	vr := &sheets.ValueRange{Values: [][]any{row.Values()}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	slog.Info("row appended", "sheet", c.sheetName, "id", row.ID)
	return nil
}
