package core

import (
	"strconv"
	"strings"

	"github.com/uson1004/SwanBudget/internal/card"
)

// minCardDigits is the shortest number the registration form accepts.
const minCardDigits = 16

// Validate checks a card before registration: a Luhn-valid number of at
// least 16 digits, a holder name, and a MM/YYYY expiry.
func (in CardInput) Validate() error {
	digits := card.Digits(in.CardNumber)
	if len(digits) < minCardDigits || !card.Validate(digits) {
		return ErrInvalidCard
	}
	if strings.TrimSpace(in.CardholderName) == "" {
		return ErrEmptyName
	}
	month, err := strconv.Atoi(in.ExpiryMonth)
	if err != nil || month < 1 || month > 12 {
		return ErrInvalidExpiry
	}
	if len(in.ExpiryYear) != 4 {
		return ErrInvalidExpiry
	}
	if _, err := strconv.Atoi(in.ExpiryYear); err != nil {
		return ErrInvalidExpiry
	}
	return nil
}

// Complete fills the derived fields from the card number.
func (in CardInput) Complete() CardInput {
	digits := card.Digits(in.CardNumber)
	in.CardNumber = digits
	in.CardType = card.DetectType(digits)
	in.LastFourDigits = card.LastFour(digits)
	return in
}
