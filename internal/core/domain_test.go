package core

import (
	"testing"
	"time"
)

func TestTransactionTypeIsValid(t *testing.T) {
	for _, tt := range []TransactionType{Income, Expense} {
		if !tt.IsValid() {
			t.Fatalf("%q should be valid", tt)
		}
	}
	if TransactionType("transfer").IsValid() {
		t.Fatalf("transfer should be invalid")
	}
}

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "lunch",
		Amount:      12000,
		Type:        Expense,
		Category:    "식비",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*TransactionInput)
		want error
	}{
		{"blank description", func(in *TransactionInput) { in.Description = "  " }, ErrEmptyDescription},
		{"zero amount", func(in *TransactionInput) { in.Amount = 0 }, ErrInvalidAmount},
		{"negative amount", func(in *TransactionInput) { in.Amount = -5 }, ErrInvalidAmount},
		{"bad type", func(in *TransactionInput) { in.Type = "gift" }, ErrInvalidType},
		{"no category", func(in *TransactionInput) { in.Category = "" }, ErrEmptyCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := good
			tc.mut(&in)
			if err := in.Validate(); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTransactionInputNormalize(t *testing.T) {
	in := TransactionInput{Type: Income, CardID: "c1"}
	if got := in.Normalize().CardID; got != "" {
		t.Fatalf("income should drop card id, got %q", got)
	}
	in.Type = Expense
	if got := in.Normalize().CardID; got != "c1" {
		t.Fatalf("expense should keep card id, got %q", got)
	}
}

func TestCardInputValidate(t *testing.T) {
	good := CardInput{
		CardNumber:     "4532 0151 1283 0366",
		CardholderName: "HONG GILDONG",
		ExpiryMonth:    "07",
		ExpiryYear:     "2029",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []CardInput{
		{CardNumber: "4532015112830367", CardholderName: "A", ExpiryMonth: "01", ExpiryYear: "2030"},
		{CardNumber: "4111111111", CardholderName: "A", ExpiryMonth: "01", ExpiryYear: "2030"},
		{CardNumber: "4532015112830366", CardholderName: " ", ExpiryMonth: "01", ExpiryYear: "2030"},
		{CardNumber: "4532015112830366", CardholderName: "A", ExpiryMonth: "13", ExpiryYear: "2030"},
		{CardNumber: "4532015112830366", CardholderName: "A", ExpiryMonth: "01", ExpiryYear: "30"},
		{CardNumber: "4532015112830366", CardholderName: "A", ExpiryMonth: "01", ExpiryYear: "20x0"},
	}
	for i, in := range bads {
		if err := in.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCardInputComplete(t *testing.T) {
	in := CardInput{CardNumber: "4532 0151 1283 0366"}.Complete()
	if in.CardNumber != "4532015112830366" {
		t.Fatalf("number not cleaned: %q", in.CardNumber)
	}
	if in.CardType != "Visa" || in.LastFourDigits != "0366" {
		t.Fatalf("derived fields wrong: %+v", in)
	}
}

func TestSettingsPatch(t *testing.T) {
	name := "김철수"
	theme := "dark"
	got := SettingsPatch{UserName: &name, Theme: &theme}.Apply(DefaultUserSettings())
	want := UserSettings{UserName: "김철수", Email: "user@example.com", Theme: "dark"}
	if got != want {
		t.Fatalf("Apply = %+v, want %+v", got, want)
	}

	empty := ""
	if err := (SettingsPatch{Email: &empty}).Validate(); err != ErrEmptyEmail {
		t.Fatalf("expected ErrEmptyEmail, got %v", err)
	}
	if err := (SettingsPatch{Theme: &empty}).Validate(); err != nil {
		t.Fatalf("theme may be blank, got %v", err)
	}
}

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()
	if len(cats) != 13 {
		t.Fatalf("expected 13 categories, got %d", len(cats))
	}
	var expense, income int
	for i, c := range cats {
		switch c.Type {
		case Expense:
			expense++
		case Income:
			income++
		}
		if c.ID == "" || c.Name == "" {
			t.Fatalf("category %d incomplete: %+v", i, c)
		}
	}
	if expense != 8 || income != 5 {
		t.Fatalf("got %d expense / %d income", expense, income)
	}
}

func TestCalendarHelpers(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	// 2024-12-31 20:00 UTC is already 2025-01-01 in Seoul.
	ts := time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC)

	if !InMonth(ts, 2025, time.January, seoul) {
		t.Fatalf("expected January 2025 in KST")
	}
	if !InMonth(ts, 2024, time.December, time.UTC) {
		t.Fatalf("expected December 2024 in UTC")
	}
	if !InYear(ts, 2025, seoul) || InYear(ts, 2025, time.UTC) {
		t.Fatalf("year boundary not respected")
	}
	if !SameDay(ts, time.Date(2025, 1, 1, 23, 0, 0, 0, seoul), seoul) {
		t.Fatalf("expected same day in KST")
	}
	if DaysIn(2024, time.February) != 29 || DaysIn(2025, time.February) != 28 {
		t.Fatalf("DaysIn February wrong")
	}
}
