package finance

import (
	"time"

	"github.com/uson1004/SwanBudget/internal/core"
)

// Transactions returns a copy of the ledger, newest first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction{}, s.transactions...)
}

func (s *Store) Cards() []core.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Card{}, s.cards...)
}

func (s *Store) Categories() []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category{}, s.categories...)
}

func (s *Store) UserSettings() core.UserSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// CardByID resolves a card reference. Transactions may point at deleted
// cards, in which case ok is false.
func (s *Store) CardByID(id string) (core.Card, bool) {
	if id == "" {
		return core.Card{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID == id {
			return c, true
		}
	}
	return core.Card{}, false
}

func (s *Store) HasCategory(name string, t core.TransactionType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Name == name && c.Type == t {
			return true
		}
	}
	return false
}

// MonthlyTransactions filters by calendar month in the store's location.
func (s *Store) MonthlyTransactions(year int, month time.Month) []core.Transaction {
	return s.filter(func(t core.Transaction) bool {
		return core.InMonth(t.Date, year, month, s.loc)
	})
}

func (s *Store) YearlyTransactions(year int) []core.Transaction {
	return s.filter(func(t core.Transaction) bool {
		return core.InYear(t.Date, year, s.loc)
	})
}

func (s *Store) DailyTransactions(day time.Time) []core.Transaction {
	return s.filter(func(t core.Transaction) bool {
		return core.SameDay(t.Date, day, s.loc)
	})
}

func (s *Store) filter(keep func(core.Transaction) bool) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []core.Transaction{}
	for _, t := range s.transactions {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) TotalIncome() float64 {
	return TotalIncome(s.Transactions())
}

func (s *Store) TotalExpense() float64 {
	return TotalExpense(s.Transactions())
}

func (s *Store) Balance() float64 {
	return Balance(s.Transactions())
}
