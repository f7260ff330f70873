package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType classifies transactions and categories.
	TransactionType string

	Transaction struct {
		ID          string          `json:"id"`
		Date        time.Time       `json:"date"`
		Description string          `json:"description"`
		Amount      float64         `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		CardID      string          `json:"cardId,omitempty"` // empty means cash / no card
	}

	// TransactionInput is a transaction without its identifier.
	TransactionInput struct {
		Date        time.Time       `json:"date"`
		Description string          `json:"description"`
		Amount      float64         `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		CardID      string          `json:"cardId,omitempty"`
	}

	Card struct {
		ID             string `json:"id"`
		CardNumber     string `json:"cardNumber"`
		CardholderName string `json:"cardholderName"`
		ExpiryMonth    string `json:"expiryMonth"`
		ExpiryYear     string `json:"expiryYear"`
		CardType       string `json:"cardType"`
		LastFourDigits string `json:"lastFourDigits"`
	}

	CardInput struct {
		CardNumber     string `json:"cardNumber"`
		CardholderName string `json:"cardholderName"`
		ExpiryMonth    string `json:"expiryMonth"`
		ExpiryYear     string `json:"expiryYear"`
		CardType       string `json:"cardType"`
		LastFourDigits string `json:"lastFourDigits"`
	}

	Category struct {
		ID   string          `json:"id"`
		Name string          `json:"name"`
		Type TransactionType `json:"type"`
	}

	CategoryInput struct {
		Name string          `json:"name"`
		Type TransactionType `json:"type"`
	}

	UserSettings struct {
		UserName string `json:"userName"`
		Email    string `json:"email"`
		Theme    string `json:"theme"`
	}

	// SettingsPatch is a partial UserSettings; nil fields are left untouched.
	SettingsPatch struct {
		UserName *string `json:"userName,omitempty"`
		Email    *string `json:"email,omitempty"`
		Theme    *string `json:"theme,omitempty"`
	}

	// Snapshot is the backup file layout.
	Snapshot struct {
		Transactions []Transaction `json:"transactions"`
		Cards        []Card        `json:"cards"`
		Categories   []Category    `json:"categories"`
		BackupDate   time.Time     `json:"backupDate"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyEmail       = errors.New("empty email")
	ErrInvalidCard      = errors.New("invalid card number")
	ErrInvalidExpiry    = errors.New("invalid expiry date")
)

// IsValid reports whether t is income or expense.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// Validate applies the rules the entry form enforces before a transaction
// reaches the store. The store itself accepts anything.
func (in TransactionInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !in.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Normalize drops a card reference from income entries; only expenses are
// paid by card.
func (in TransactionInput) Normalize() TransactionInput {
	if in.Type != Expense {
		in.CardID = ""
	}
	return in
}

// WithID builds the stored transaction.
func (in TransactionInput) WithID(id string) Transaction {
	return Transaction{
		ID:          id,
		Date:        in.Date,
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    in.Category,
		CardID:      in.CardID,
	}
}

func (in CardInput) WithID(id string) Card {
	return Card{
		ID:             id,
		CardNumber:     in.CardNumber,
		CardholderName: in.CardholderName,
		ExpiryMonth:    in.ExpiryMonth,
		ExpiryYear:     in.ExpiryYear,
		CardType:       in.CardType,
		LastFourDigits: in.LastFourDigits,
	}
}

func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if !in.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (in CategoryInput) WithID(id string) Category {
	return Category{ID: id, Name: in.Name, Type: in.Type}
}

// Apply shallow-merges the patch into s.
func (p SettingsPatch) Apply(s UserSettings) UserSettings {
	if p.UserName != nil {
		s.UserName = *p.UserName
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	return s
}

// Validate rejects blanking out the profile fields.
func (p SettingsPatch) Validate() error {
	if p.UserName != nil && strings.TrimSpace(*p.UserName) == "" {
		return ErrEmptyName
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}
