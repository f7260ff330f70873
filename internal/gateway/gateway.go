// Package gateway implements the card and transaction endpoints that stand
// in for a payment processor. Nothing here is persisted; requests are
// validated and echoed back as fabricated records.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uson1004/SwanBudget/internal/card"
	"github.com/uson1004/SwanBudget/internal/core"
)

// Messages returned to clients.
const (
	MsgMissingFields  = "모든 필드를 입력해주세요."
	MsgMissingCardID  = "카드 ID가 필요합니다."
	MsgCardLinked     = "카드가 성공적으로 연결되었습니다."
	MsgCardRemoved    = "카드가 성공적으로 삭제되었습니다."
	MsgTxAdded        = "거래가 성공적으로 추가되었습니다."
	MsgCardLinkFailed = "카드 연결 중 오류가 발생했습니다."
	MsgCardDelFailed  = "카드 삭제 중 오류가 발생했습니다."
	MsgTxAddFailed    = "거래 추가 중 오류가 발생했습니다."
)

var (
	ErrMissingFields = errors.New(MsgMissingFields)
	ErrMissingCardID = errors.New(MsgMissingCardID)
)

const (
	DefaultLinkDelay   = 1500 * time.Millisecond
	DefaultRemoveDelay = 800 * time.Millisecond
)

type (
	CardRequest struct {
		CardNumber     string `json:"cardNumber"`
		CardholderName string `json:"cardholderName"`
		ExpiryMonth    string `json:"expiryMonth"`
		ExpiryYear     string `json:"expiryYear"`
		CVV            string `json:"cvv"`
	}

	// CardRecord is the processor's view of a linked card. The full number
	// and CVV are never echoed.
	CardRecord struct {
		ID             string `json:"id"`
		LastFourDigits string `json:"lastFourDigits"`
		CardType       string `json:"cardType"`
		ExpiryMonth    string `json:"expiryMonth"`
		ExpiryYear     string `json:"expiryYear"`
		CardholderName string `json:"cardholderName"`
	}

	TransactionRequest struct {
		Amount      float64              `json:"amount"`
		Description string               `json:"description"`
		Type        core.TransactionType `json:"type"`
		Category    string               `json:"category"`
		CardID      string               `json:"cardId,omitempty"`
	}
)

func (r CardRequest) complete() bool {
	for _, f := range []string{r.CardNumber, r.CardholderName, r.ExpiryMonth, r.ExpiryYear, r.CVV} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

func (r TransactionRequest) complete() bool {
	return r.Amount != 0 &&
		strings.TrimSpace(r.Description) != "" &&
		r.Type != "" &&
		strings.TrimSpace(r.Category) != ""
}

// Processor answers the synthetic endpoints.
type Processor struct {
	linkDelay   time.Duration
	removeDelay time.Duration
	newID       func() string
	now         func() time.Time
	logger      *slog.Logger
}

type Option func(*Processor)

// WithDelays overrides the simulated processing pauses.
func WithDelays(link, remove time.Duration) Option {
	return func(p *Processor) {
		p.linkDelay = link
		p.removeDelay = remove
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(p *Processor) { p.newID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		linkDelay:   DefaultLinkDelay,
		removeDelay: DefaultRemoveDelay,
		newID:       uuid.NewString,
		now:         time.Now,
		logger:      slog.Default().With("component", "gateway"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RegisterCard validates the five required fields and returns a record
// carrying the detected brand.
func (p *Processor) RegisterCard(ctx context.Context, req CardRequest) (CardRecord, error) {
	if !req.complete() {
		return CardRecord{}, ErrMissingFields
	}
	if err := ProcessingDelay(ctx, p.linkDelay); err != nil {
		return CardRecord{}, err
	}

	digits := card.Digits(req.CardNumber)
	rec := CardRecord{
		ID:             p.newID(),
		LastFourDigits: card.LastFour(digits),
		CardType:       card.DetectType(digits),
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
		CardholderName: req.CardholderName,
	}
	p.logger.InfoContext(ctx, "Card linked", "card_id", rec.ID, "card_type", rec.CardType)
	return rec, nil
}

func (p *Processor) RemoveCard(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingCardID
	}
	if err := ProcessingDelay(ctx, p.removeDelay); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "Card removed", "card_id", id)
	return nil
}

// CreateTransaction echoes the request as a transaction dated now.
func (p *Processor) CreateTransaction(ctx context.Context, req TransactionRequest) (core.Transaction, error) {
	if !req.complete() {
		return core.Transaction{}, ErrMissingFields
	}
	tx := core.Transaction{
		ID:          p.newID(),
		Date:        p.now(),
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		CardID:      req.CardID,
	}
	p.logger.InfoContext(ctx, "Transaction accepted",
		"transaction_id", tx.ID,
		"type", tx.Type,
		"paid_by_card", tx.CardID != "")
	return tx, nil
}

// ProcessingDelay waits for d or until ctx is done.
func ProcessingDelay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
