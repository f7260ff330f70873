package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/uson1004/SwanBudget/internal/core"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		want    Period
		wantErr bool
	}{
		{"empty", url.Values{}, Period{Kind: PeriodAll}, false},
		{"year", url.Values{"year": {"2024"}}, Period{Kind: PeriodYear, Year: 2024}, false},
		{"month", url.Values{"year": {"2024"}, "month": {"2"}}, Period{Kind: PeriodMonth, Year: 2024, Month: time.February}, false},
		{"day wins", url.Values{"day": {"2024-02-29"}, "year": {"1999"}}, Period{Kind: PeriodDay, Day: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)}, false},
		{"month without year", url.Values{"month": {"3"}}, Period{}, true},
		{"month out of range", url.Values{"year": {"2024"}, "month": {"13"}}, Period{}, true},
		{"month zero", url.Values{"year": {"2024"}, "month": {"0"}}, Period{}, true},
		{"bad year", url.Values{"year": {"abc"}}, Period{}, true},
		{"bad day", url.Values{"day": {"2024-13-01"}}, Period{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.query, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePeriod() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (got.Kind != tt.want.Kind || got.Year != tt.want.Year || got.Month != tt.want.Month || !got.Day.Equal(tt.want.Day)) {
				t.Fatalf("ParsePeriod() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		A string `json:"a"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"x"}`))
	if err := decodeJSON(httptest.NewRecorder(), r, &dst); err != nil || dst.A != "x" {
		t.Fatalf("decodeJSON() = %v, dst = %+v", err, dst)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("   "))
	if err := decodeJSON(httptest.NewRecorder(), r, &dst); !errors.Is(err, errEmptyBody) {
		t.Fatalf("empty body error = %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":`))
	if err := decodeJSON(httptest.NewRecorder(), r, &dst); err == nil {
		t.Fatal("expected error for truncated JSON")
	}

	big := `{"a":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	if err := decodeJSON(httptest.NewRecorder(), r, &dst); !errors.Is(err, errBodyTooLarge) {
		t.Fatalf("large body error = %v", err)
	}
}

func TestTransactionPayloadToInput(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	kst := time.FixedZone("KST", 9*3600)

	in, err := transactionPayload{
		Date: "2025-03-01", Description: "  점심\x00 ", Amount: 9000,
		Type: core.Income, Category: "용돈", CardID: "c1",
	}.toInput(now, kst)
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if !in.Date.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, kst)) {
		t.Errorf("Date = %v", in.Date)
	}
	if in.Description != "점심" {
		t.Errorf("Description = %q", in.Description)
	}
	if in.CardID != "" {
		t.Errorf("income should drop the card id, got %q", in.CardID)
	}

	in, err = transactionPayload{Description: "x", Amount: 1, Type: core.Expense, Category: "식비"}.toInput(now, kst)
	if err != nil || !in.Date.Equal(now) {
		t.Fatalf("empty date should default to now: %v %v", in.Date, err)
	}

	in, err = transactionPayload{Date: "2025-03-01T12:30:00Z"}.toInput(now, kst)
	if err != nil || !in.Date.Equal(time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)) {
		t.Fatalf("RFC 3339 date: %v %v", in.Date, err)
	}

	if _, err := (transactionPayload{Date: "yesterday"}).toInput(now, kst); err == nil {
		t.Fatal("expected invalid date error")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\tb\x07c\n "); got != "a\tbc" {
		t.Fatalf("sanitizeInput() = %q", got)
	}
}
