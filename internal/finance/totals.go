package finance

import (
	"github.com/shopspring/decimal"

	"github.com/uson1004/SwanBudget/internal/core"
)

// Totals summarizes a set of transactions.
type Totals struct {
	Income  float64 `json:"totalIncome"`
	Expense float64 `json:"totalExpense"`
	Balance float64 `json:"balance"`
}

// TotalIncome sums the income amounts of txs. Amounts are added as decimals
// so long ledgers do not drift.
func TotalIncome(txs []core.Transaction) float64 {
	return sumOf(txs, core.Income).InexactFloat64()
}

func TotalExpense(txs []core.Transaction) float64 {
	return sumOf(txs, core.Expense).InexactFloat64()
}

// Balance is TotalIncome minus TotalExpense.
func Balance(txs []core.Transaction) float64 {
	return TotalIncome(txs) - TotalExpense(txs)
}

func Summarize(txs []core.Transaction) Totals {
	in, out := TotalIncome(txs), TotalExpense(txs)
	return Totals{Income: in, Expense: out, Balance: in - out}
}

func sumOf(txs []core.Transaction, t core.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == t {
			total = total.Add(decimal.NewFromFloat(tx.Amount))
		}
	}
	return total
}
