package google

import (
	"time"

	"github.com/uson1004/SwanBudget/internal/card"
	"github.com/uson1004/SwanBudget/internal/core"
	"github.com/uson1004/SwanBudget/internal/stats"
)

// Label for card references whose card no longer exists.
const deletedCardLabel = "(삭제된 카드)"

func transactionRows(txs []core.Transaction, cards []core.Card, loc *time.Location) [][]any {
	byID := make(map[string]core.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	rows := make([][]any, 0, len(txs)+1)
	rows = append(rows, []any{"ID", "날짜", "설명", "금액", "유형", "카테고리", "카드"})
	for _, tx := range txs {
		rows = append(rows, []any{
			tx.ID,
			tx.Date.In(loc).Format("2006-01-02 15:04"),
			tx.Description,
			tx.Amount,
			typeLabel(tx.Type),
			tx.Category,
			cardLabel(tx.CardID, byID),
		})
	}
	return rows
}

func cardLabel(id string, cards map[string]core.Card) string {
	if id == "" {
		return ""
	}
	c, ok := cards[id]
	if !ok {
		return deletedCardLabel
	}
	return c.CardType + " " + card.Mask(c.CardNumber)
}

// cardRows never writes the full card number.
func cardRows(cards []core.Card) [][]any {
	rows := make([][]any, 0, len(cards)+1)
	rows = append(rows, []any{"ID", "카드 번호", "소유자", "만료", "종류"})
	for _, c := range cards {
		rows = append(rows, []any{
			c.ID,
			card.Mask(c.CardNumber),
			c.CardholderName,
			c.ExpiryMonth + "/" + c.ExpiryYear,
			c.CardType,
		})
	}
	return rows
}

func categoryRows(cats []core.Category) [][]any {
	rows := make([][]any, 0, len(cats)+1)
	rows = append(rows, []any{"ID", "이름", "유형"})
	for _, c := range cats {
		rows = append(rows, []any{c.ID, c.Name, typeLabel(c.Type)})
	}
	return rows
}

func summaryRows(txs []core.Transaction, year int, loc *time.Location) [][]any {
	series := stats.MonthlySeries(txs, year, loc)
	rows := make([][]any, 0, len(series)+1)
	rows = append(rows, []any{"월", "수입", "지출", "잔액"})
	for _, p := range series {
		rows = append(rows, []any{p.Month, p.Income, p.Expense, p.Balance})
	}
	return rows
}

func typeLabel(t core.TransactionType) string {
	switch t {
	case core.Income:
		return "수입"
	case core.Expense:
		return "지출"
	default:
		return string(t)
	}
}
