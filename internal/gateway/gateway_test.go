package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uson1004/SwanBudget/internal/core"
)

func newTestProcessor() *Processor {
	return NewProcessor(
		WithDelays(0, 0),
		WithIDGenerator(func() string { return "gw-1" }),
		WithClock(func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }),
	)
}

func TestRegisterCard(t *testing.T) {
	p := newTestProcessor()
	req := CardRequest{
		CardNumber:     "4111 1111 1111 1111",
		CardholderName: "HONG GILDONG",
		ExpiryMonth:    "12",
		ExpiryYear:     "2030",
		CVV:            "123",
	}
	rec, err := p.RegisterCard(context.Background(), req)
	if err != nil {
		t.Fatalf("RegisterCard: %v", err)
	}
	want := CardRecord{
		ID:             "gw-1",
		LastFourDigits: "1111",
		CardType:       "Visa",
		ExpiryMonth:    "12",
		ExpiryYear:     "2030",
		CardholderName: "HONG GILDONG",
	}
	if rec != want {
		t.Fatalf("got %+v, want %+v", rec, want)
	}
}

func TestRegisterCardMissingFields(t *testing.T) {
	p := newTestProcessor()
	full := CardRequest{"5500000000000004", "KIM", "01", "2030", "999"}
	tests := []struct {
		name   string
		mutate func(*CardRequest)
	}{
		{"number", func(r *CardRequest) { r.CardNumber = "" }},
		{"holder", func(r *CardRequest) { r.CardholderName = " " }},
		{"month", func(r *CardRequest) { r.ExpiryMonth = "" }},
		{"year", func(r *CardRequest) { r.ExpiryYear = "" }},
		{"cvv", func(r *CardRequest) { r.CVV = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := full
			tt.mutate(&req)
			if _, err := p.RegisterCard(context.Background(), req); !errors.Is(err, ErrMissingFields) {
				t.Fatalf("want ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestRemoveCard(t *testing.T) {
	p := newTestProcessor()
	if err := p.RemoveCard(context.Background(), ""); !errors.Is(err, ErrMissingCardID) {
		t.Fatalf("want ErrMissingCardID, got %v", err)
	}
	if err := p.RemoveCard(context.Background(), "abc"); err != nil {
		t.Fatalf("RemoveCard: %v", err)
	}
}

func TestCreateTransaction(t *testing.T) {
	p := newTestProcessor()
	req := TransactionRequest{Amount: 12000, Description: "점심", Type: core.Expense, Category: "식비", CardID: "c1"}
	tx, err := p.CreateTransaction(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.ID != "gw-1" || tx.Amount != 12000 || tx.CardID != "c1" || tx.Date.IsZero() {
		t.Fatalf("unexpected record %+v", tx)
	}

	req.Amount = 0
	if _, err := p.CreateTransaction(context.Background(), req); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("zero amount should count as missing, got %v", err)
	}
}

func TestProcessingDelayHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := ProcessingDelay(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("delay ignored cancellation")
	}

	p := NewProcessor(WithDelays(time.Minute, time.Minute))
	req := CardRequest{"4111111111111111", "KIM", "01", "2030", "123"}
	if _, err := p.RegisterCard(ctx, req); !errors.Is(err, context.Canceled) {
		t.Fatalf("RegisterCard should stop on cancel, got %v", err)
	}
}
