package http

import (
	"strings"

	"github.com/uson1004/SwanBudget/internal/card"
	"github.com/uson1004/SwanBudget/internal/core"
)

// sanitizeInput trims whitespace and drops control characters other than
// tab, newline and carriage return.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// cardView is a card as the API returns it; the number is always masked.
type cardView struct {
	ID             string `json:"id"`
	CardNumber     string `json:"cardNumber"`
	CardholderName string `json:"cardholderName"`
	ExpiryMonth    string `json:"expiryMonth"`
	ExpiryYear     string `json:"expiryYear"`
	CardType       string `json:"cardType"`
	LastFourDigits string `json:"lastFourDigits"`
}

func newCardView(c core.Card) cardView {
	return cardView{
		ID:             c.ID,
		CardNumber:     card.Mask(c.CardNumber),
		CardholderName: c.CardholderName,
		ExpiryMonth:    c.ExpiryMonth,
		ExpiryYear:     c.ExpiryYear,
		CardType:       c.CardType,
		LastFourDigits: c.LastFourDigits,
	}
}

func newCardViews(cards []core.Card) []cardView {
	out := make([]cardView, len(cards))
	for i, c := range cards {
		out[i] = newCardView(c)
	}
	return out
}

// transactionView adds a display label for the paying card. References to
// deleted cards keep the raw id as the label and are flagged.
type transactionView struct {
	core.Transaction
	CardLabel   string `json:"cardLabel,omitempty"`
	CardMissing bool   `json:"cardMissing,omitempty"`
}

func newTransactionViews(txs []core.Transaction, lookup func(string) (core.Card, bool)) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		v := transactionView{Transaction: tx}
		if tx.CardID != "" {
			if c, ok := lookup(tx.CardID); ok {
				v.CardLabel = c.CardType + " " + card.Mask(c.CardNumber)
			} else {
				v.CardLabel = tx.CardID
				v.CardMissing = true
			}
		}
		views = append(views, v)
	}
	return views
}
