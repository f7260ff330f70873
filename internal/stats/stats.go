// Package stats derives chart-ready aggregates from a transaction list.
// Everything here is a pure function recomputed on each call.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/uson1004/SwanBudget/internal/core"
	"github.com/uson1004/SwanBudget/internal/finance"
)

type (
	CategoryAmount struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	// DailyPoint is one day of the month chart; Date is "MM.dd".
	DailyPoint struct {
		Date    string  `json:"date"`
		Expense float64 `json:"expense"`
		Income  float64 `json:"income"`
		Balance float64 `json:"balance"`
	}

	MonthlyPoint struct {
		Month   int     `json:"month"`
		Label   string  `json:"label"`
		Expense float64 `json:"expense"`
		Income  float64 `json:"income"`
		Balance float64 `json:"balance"`
	}
)

// ByCategory sums amounts of the given type per category name, in the order
// categories are first seen.
func ByCategory(txs []core.Transaction, t core.TransactionType) []CategoryAmount {
	sums := map[string]decimal.Decimal{}
	var order []string
	for _, tx := range txs {
		if tx.Type != t {
			continue
		}
		cur, seen := sums[tx.Category]
		if !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] = cur.Add(decimal.NewFromFloat(tx.Amount))
	}

	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Value: sums[name].InexactFloat64()})
	}
	return out
}

// DailySeries returns one point per calendar day of the month, zero-filled.
func DailySeries(txs []core.Transaction, year int, month time.Month, loc *time.Location) []DailyPoint {
	if loc == nil {
		loc = time.Local
	}
	days := core.DaysIn(year, month)
	buckets := make([][]core.Transaction, days)
	for _, tx := range txs {
		if !core.InMonth(tx.Date, year, month, loc) {
			continue
		}
		d := tx.Date.In(loc).Day()
		buckets[d-1] = append(buckets[d-1], tx)
	}

	out := make([]DailyPoint, days)
	for i := range out {
		day := time.Date(year, month, i+1, 0, 0, 0, 0, loc)
		totals := finance.Summarize(buckets[i])
		out[i] = DailyPoint{
			Date:    day.Format("01.02"),
			Expense: totals.Expense,
			Income:  totals.Income,
			Balance: totals.Balance,
		}
	}
	return out
}

// MonthlySeries returns twelve points for the year, zero-filled. A nil loc
// means time.Local.
func MonthlySeries(txs []core.Transaction, year int, loc *time.Location) []MonthlyPoint {
	if loc == nil {
		loc = time.Local
	}
	var buckets [12][]core.Transaction
	for _, tx := range txs {
		if !core.InYear(tx.Date, year, loc) {
			continue
		}
		m := tx.Date.In(loc).Month()
		buckets[m-1] = append(buckets[m-1], tx)
	}

	out := make([]MonthlyPoint, 12)
	for i := range out {
		totals := finance.Summarize(buckets[i])
		out[i] = MonthlyPoint{
			Month:   i + 1,
			Label:   time.Month(i + 1).String()[:3],
			Expense: totals.Expense,
			Income:  totals.Income,
			Balance: totals.Balance,
		}
	}
	return out
}

// ChangeRate is the percent change from prior to current. A zero prior
// yields 0.
func ChangeRate(current, prior float64) float64 {
	if prior == 0 {
		return 0
	}
	return (current - prior) / prior * 100
}

// SavingsRate is the share of income left after expenses, in percent.
func SavingsRate(income, expense float64) float64 {
	if income <= 0 {
		return 0
	}
	return (income - expense) / income * 100
}

// BalanceRatio is |income-expense| relative to expense, in percent.
func BalanceRatio(income, expense float64) float64 {
	if expense == 0 {
		return 0
	}
	diff := income - expense
	if diff < 0 {
		diff = -diff
	}
	return diff / expense * 100
}
