package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	ports "github.com/uson1004/SwanBudget/internal/sheets"

	"github.com/uson1004/SwanBudget/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Default tab names.
const (
	DefaultTransactionsSheet = "Transactions"
	DefaultCardsSheet        = "Cards"
	DefaultCategoriesSheet   = "Categories"
	DefaultSummarySheet      = "Summary"
)

type Options struct {
	SpreadsheetID     string
	TransactionsSheet string
	CardsSheet        string
	CategoriesSheet   string
	SummarySheet      string
	// Location decides calendar dates written to the sheet.
	Location *time.Location
}

func (o *Options) defaults() {
	if o.TransactionsSheet == "" {
		o.TransactionsSheet = DefaultTransactionsSheet
	}
	if o.CardsSheet == "" {
		o.CardsSheet = DefaultCardsSheet
	}
	if o.CategoriesSheet == "" {
		o.CategoriesSheet = DefaultCategoriesSheet
	}
	if o.SummarySheet == "" {
		o.SummarySheet = DefaultSummarySheet
	}
	if o.Location == nil {
		o.Location = time.Local
	}
}

type Client struct {
	svc  *gsheet.Service
	opts Options
	now  func() time.Time
}

var _ ports.SnapshotWriter = (*Client)(nil)

// New creates a client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, opts), nil
}

// NewFromEnv reads GOOGLE_SPREADSHEET_ID and the optional
// GOOGLE_*_SHEET_NAME overrides.
func NewFromEnv(ctx context.Context) (*Client, error) {
	return New(ctx, Options{
		SpreadsheetID:     strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID")),
		TransactionsSheet: strings.TrimSpace(os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME")),
		CardsSheet:        strings.TrimSpace(os.Getenv("GOOGLE_CARDS_SHEET_NAME")),
		CategoriesSheet:   strings.TrimSpace(os.Getenv("GOOGLE_CATEGORIES_SHEET_NAME")),
		SummarySheet:      strings.TrimSpace(os.Getenv("GOOGLE_SUMMARY_SHEET_NAME")),
	})
}

func NewWithService(svc *gsheet.Service, opts Options) *Client {
	opts.defaults()
	return &Client{svc: svc, opts: opts, now: time.Now}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credentialsJSON, source, err := serviceAccountCredentials()
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Creating Google Sheets service",
		"credentials_source", source,
		"credentials_size", len(credentialsJSON))

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func serviceAccountCredentials() ([]byte, string, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), "inline", nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, "", errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read service account file: %w", err)
	}
	return b, "file", nil
}

// WriteSnapshot clears the mirrored tabs and rewrites them in one batch.
func (c *Client) WriteSnapshot(ctx context.Context, snap core.Snapshot) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	year := c.now().In(c.opts.Location).Year()
	tabs := []struct {
		name string
		rows [][]any
	}{
		{c.opts.TransactionsSheet, transactionRows(snap.Transactions, snap.Cards, c.opts.Location)},
		{c.opts.CardsSheet, cardRows(snap.Cards)},
		{c.opts.CategoriesSheet, categoryRows(snap.Categories)},
		{c.opts.SummarySheet, summaryRows(snap.Transactions, year, c.opts.Location)},
	}

	clear := &gsheet.BatchClearValuesRequest{}
	update := &gsheet.BatchUpdateValuesRequest{ValueInputOption: "USER_ENTERED"}
	for _, tab := range tabs {
		clear.Ranges = append(clear.Ranges, fmt.Sprintf("%s!A:Z", tab.name))
		update.Data = append(update.Data, &gsheet.ValueRange{
			Range:  fmt.Sprintf("%s!A1", tab.name),
			Values: tab.rows,
		})
	}

	if _, err := c.svc.Spreadsheets.Values.BatchClear(c.opts.SpreadsheetID, clear).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear mirrored sheets: %w", err)
	}
	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(c.opts.SpreadsheetID, update).Context(ctx).Do(); err != nil {
		return fmt.Errorf("write mirrored sheets: %w", err)
	}

	slog.InfoContext(ctx, "Ledger mirrored to spreadsheet",
		"transactions", len(snap.Transactions),
		"cards", len(snap.Cards),
		"categories", len(snap.Categories))
	return nil
}
