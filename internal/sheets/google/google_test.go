package google

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/uson1004/SwanBudget/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func sampleSnapshot() core.Snapshot {
	return core.Snapshot{
		Transactions: []core.Transaction{
			{ID: "t2", Date: time.Date(2025, 3, 2, 12, 30, 0, 0, time.UTC), Description: "점심", Amount: 9000, Type: core.Expense, Category: "식비", CardID: "c1"},
			{ID: "t1", Date: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), Description: "월급", Amount: 3000000, Type: core.Income, Category: "급여"},
			{ID: "t0", Date: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC), Description: "택시", Amount: 15000, Type: core.Expense, Category: "교통비", CardID: "gone"},
		},
		Cards: []core.Card{
			{ID: "c1", CardNumber: "4111111111111111", CardholderName: "KIM", ExpiryMonth: "12", ExpiryYear: "2030", CardType: "Visa", LastFourDigits: "1111"},
		},
		Categories: core.DefaultCategories(),
	}
}

func TestTransactionRows(t *testing.T) {
	snap := sampleSnapshot()
	rows := transactionRows(snap.Transactions, snap.Cards, time.UTC)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3", len(rows))
	}
	if rows[1][1] != "2025-03-02 12:30" || rows[1][4] != "지출" {
		t.Fatalf("row 1 = %v", rows[1])
	}
	if got := rows[1][6]; got != "Visa •••• •••• •••• 1111" {
		t.Fatalf("card label = %q", got)
	}
	if got := rows[2][6]; got != "" {
		t.Fatalf("cash transaction card label = %q", got)
	}
	if got := rows[3][6]; got != deletedCardLabel {
		t.Fatalf("dangling card label = %q", got)
	}
}

func TestCardRowsMaskNumbers(t *testing.T) {
	rows := cardRows(sampleSnapshot().Cards)
	for _, row := range rows {
		for _, cell := range row {
			if s, ok := cell.(string); ok && strings.Contains(s, "4111111111111111") {
				t.Fatalf("full card number leaked in %v", row)
			}
		}
	}
	if rows[1][3] != "12/2030" {
		t.Fatalf("expiry = %v", rows[1][3])
	}
}

func TestSummaryRows(t *testing.T) {
	rows := summaryRows(sampleSnapshot().Transactions, 2025, time.UTC)
	if len(rows) != 13 {
		t.Fatalf("rows = %d", len(rows))
	}
	march := rows[3]
	if march[1] != 3000000.0 || march[2] != 9000.0 {
		t.Fatalf("march = %v", march)
	}
}

func TestWriteSnapshot(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
		body  struct {
			ValueInputOption string `json:"valueInputOption"`
			Data             []struct {
				Range  string  `json:"range"`
				Values [][]any `json:"values"`
			} `json:"data"`
		}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		paths = append(paths, r.URL.Path)
		if strings.HasSuffix(r.URL.Path, ":batchUpdate") {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	c := NewWithService(svc, Options{SpreadsheetID: "sheet-1", Location: time.UTC})

	if err := c.WriteSnapshot(context.Background(), sampleSnapshot()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	if len(paths) != 2 || !strings.HasSuffix(paths[0], ":batchClear") || !strings.HasSuffix(paths[1], ":batchUpdate") {
		t.Fatalf("requests = %v", paths)
	}
	if !strings.Contains(paths[0], "sheet-1") {
		t.Fatalf("spreadsheet id missing from %q", paths[0])
	}
	if body.ValueInputOption != "USER_ENTERED" || len(body.Data) != 4 {
		t.Fatalf("batch update = %+v", body)
	}
	if body.Data[0].Range != "Transactions!A1" || len(body.Data[0].Values) != 4 {
		t.Fatalf("transactions range = %+v", body.Data[0])
	}
}

func TestWriteSnapshotWithoutService(t *testing.T) {
	c := &Client{}
	if err := c.WriteSnapshot(context.Background(), core.Snapshot{}); err == nil {
		t.Fatal("expected error without a service")
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceAccountCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, _, err := serviceAccountCredentials(); err == nil {
		t.Fatal("expected error without credentials")
	}

	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", `{"type":"service_account"}`)
	b, source, err := serviceAccountCredentials()
	if err != nil || source != "inline" || string(b) != `{"type":"service_account"}` {
		t.Fatalf("inline credentials = %q %q %v", b, source, err)
	}

	path := t.TempDir() + "/sa.json"
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)
	if _, source, err := serviceAccountCredentials(); err != nil || source != "file" {
		t.Fatalf("file credentials: %q %v", source, err)
	}
}
