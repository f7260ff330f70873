// Package seed fills a ledger with plausible demo data.
package seed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/uson1004/SwanBudget/internal/core"
)

// Generator produces demo transactions. The same seed yields the same data.
type Generator struct {
	faker *gofakeit.Faker
	loc   *time.Location
}

func NewGenerator(seed int64, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.Local
	}
	return &Generator{faker: gofakeit.New(seed), loc: loc}
}

// Transactions returns n transactions spread over the months before now,
// the current month included. Roughly one in five is income. Amounts are
// whole multiples of 100 won.
func (g *Generator) Transactions(n, months int, now time.Time, categories []core.Category, cards []core.Card) []core.TransactionInput {
	if months < 1 {
		months = 1
	}
	now = now.In(g.loc)
	start := time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, g.loc)

	expense, income := split(categories)
	out := make([]core.TransactionInput, 0, n)
	for i := 0; i < n; i++ {
		in := core.TransactionInput{
			Date:        g.faker.DateRange(start, now).In(g.loc),
			Description: g.faker.Sentence(3),
		}
		if len(income) > 0 && (len(expense) == 0 || g.faker.Number(1, 5) == 1) {
			in.Type = core.Income
			in.Category = income[g.faker.Number(0, len(income)-1)]
			in.Amount = float64(g.faker.Number(100, 40000) * 100)
		} else if len(expense) > 0 {
			in.Type = core.Expense
			in.Category = expense[g.faker.Number(0, len(expense)-1)]
			in.Amount = float64(g.faker.Number(10, 3000) * 100)
			if len(cards) > 0 && g.faker.Bool() {
				in.CardID = cards[g.faker.Number(0, len(cards)-1)].ID
			}
		} else {
			break
		}
		out = append(out, in)
	}
	return out
}

// Card returns a registrable demo card: a Luhn-valid 16-digit Visa or
// Mastercard number with an expiry a few years out.
func (g *Generator) Card(now time.Time) core.CardInput {
	prefix := []int{4}
	if g.faker.Bool() {
		prefix = []int{5, g.faker.Number(1, 5)}
	}
	in := core.CardInput{
		CardNumber:     luhnNumber(prefix, 16, func() int { return g.faker.Number(0, 9) }),
		CardholderName: g.faker.Name(),
		ExpiryMonth:    fmt.Sprintf("%02d", g.faker.Number(1, 12)),
		ExpiryYear:     strconv.Itoa(now.In(g.loc).Year() + g.faker.Number(1, 5)),
	}
	return in.Complete()
}

// luhnNumber pads prefix with random digits and appends the check digit.
func luhnNumber(prefix []int, length int, digit func() int) string {
	digits := append([]int(nil), prefix...)
	for len(digits) < length-1 {
		digits = append(digits, digit())
	}
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		// Positions counted from the check digit: odd ones are doubled.
		if (len(digits)-1-i)%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	digits = append(digits, (10-sum%10)%10)

	var b strings.Builder
	for _, d := range digits {
		b.WriteByte(byte('0' + d))
	}
	return b.String()
}

func split(categories []core.Category) (expense, income []string) {
	for _, c := range categories {
		switch c.Type {
		case core.Expense:
			expense = append(expense, c.Name)
		case core.Income:
			income = append(income, c.Name)
		}
	}
	return expense, income
}
