package stats

import (
	"time"

	"github.com/uson1004/SwanBudget/internal/core"
	"github.com/uson1004/SwanBudget/internal/finance"
)

// MonthReport backs the statistics page for a selected day.
type MonthReport struct {
	Date  string `json:"date"`
	Year  int    `json:"year"`
	Month int    `json:"month"`

	Current  finance.Totals `json:"currentMonth"`
	LastYear finance.Totals `json:"lastYearMonth"`

	ExpenseChangeRate float64 `json:"expenseChangeRate"`
	IncomeChangeRate  float64 `json:"incomeChangeRate"`
	SavingsRate       float64 `json:"savingsRate"`
	BalanceRatio      float64 `json:"balanceRatio"`

	Daily             []DailyPoint     `json:"daily"`
	ExpenseByCategory []CategoryAmount `json:"expenseByCategory"`
	IncomeByCategory  []CategoryAmount `json:"incomeByCategory"`

	SelectedDay          finance.Totals     `json:"selectedDay"`
	DayExpenseByCategory []CategoryAmount   `json:"dayExpenseByCategory"`
	DayIncomeByCategory  []CategoryAmount   `json:"dayIncomeByCategory"`
	DayTransactions      []core.Transaction `json:"dayTransactions"`
}

type YearReport struct {
	Year              int              `json:"year"`
	Totals            finance.Totals   `json:"totals"`
	SavingsRate       float64          `json:"savingsRate"`
	Months            []MonthlyPoint   `json:"months"`
	ExpenseByCategory []CategoryAmount `json:"expenseByCategory"`
	IncomeByCategory  []CategoryAmount `json:"incomeByCategory"`
}

// BuildMonthReport compares the month containing day with the same month a
// year earlier and breaks down the selected day.
func BuildMonthReport(txs []core.Transaction, day time.Time, loc *time.Location) MonthReport {
	if loc == nil {
		loc = time.Local
	}
	day = day.In(loc)
	year, month := day.Year(), day.Month()

	current := filter(txs, func(tx core.Transaction) bool { return core.InMonth(tx.Date, year, month, loc) })
	lastYear := filter(txs, func(tx core.Transaction) bool { return core.InMonth(tx.Date, year-1, month, loc) })
	selected := filter(current, func(tx core.Transaction) bool { return core.SameDay(tx.Date, day, loc) })

	cur := finance.Summarize(current)
	prev := finance.Summarize(lastYear)

	return MonthReport{
		Date:  day.Format("2006-01-02"),
		Year:  year,
		Month: int(month),

		Current:  cur,
		LastYear: prev,

		ExpenseChangeRate: ChangeRate(cur.Expense, prev.Expense),
		IncomeChangeRate:  ChangeRate(cur.Income, prev.Income),
		SavingsRate:       SavingsRate(cur.Income, cur.Expense),
		BalanceRatio:      BalanceRatio(cur.Income, cur.Expense),

		Daily:             DailySeries(current, year, month, loc),
		ExpenseByCategory: ByCategory(current, core.Expense),
		IncomeByCategory:  ByCategory(current, core.Income),

		SelectedDay:          finance.Summarize(selected),
		DayExpenseByCategory: ByCategory(selected, core.Expense),
		DayIncomeByCategory:  ByCategory(selected, core.Income),
		DayTransactions:      selected,
	}
}

func BuildYearReport(txs []core.Transaction, year int, loc *time.Location) YearReport {
	inYear := filter(txs, func(tx core.Transaction) bool { return core.InYear(tx.Date, year, loc) })
	totals := finance.Summarize(inYear)
	return YearReport{
		Year:              year,
		Totals:            totals,
		SavingsRate:       SavingsRate(totals.Income, totals.Expense),
		Months:            MonthlySeries(inYear, year, loc),
		ExpenseByCategory: ByCategory(inYear, core.Expense),
		IncomeByCategory:  ByCategory(inYear, core.Income),
	}
}

func filter(txs []core.Transaction, keep func(core.Transaction) bool) []core.Transaction {
	out := []core.Transaction{}
	for _, tx := range txs {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return out
}
