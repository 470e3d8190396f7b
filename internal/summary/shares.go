package summary

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryShare is a presentation value: a category's share of total
// income or total spend, as a percentage.
type CategoryShare struct {
	Category string
	Amount   int64  // signed cents
	Percent  string // "34.62", two decimals, banker's rounding
}

// IncomeShares returns income categories ranked by amount descending,
// each with its percentage of total income. Percentages are rounded
// half-to-even and only here, at the presentation edge; the summed
// cent values stay exact.
func (s Summary) IncomeShares() []CategoryShare {
	return shares(s.ByCategory, s.TotalIncome, func(v int64) bool { return v > 0 })
}

// ExpenseShares is the expense-side counterpart of IncomeShares.
func (s Summary) ExpenseShares() []CategoryShare {
	return shares(s.ByCategory, s.TotalExpense, func(v int64) bool { return v < 0 })
}

// AverageAmount returns the mean transaction amount as a two-decimal
// string, banker's rounding. Empty summaries report "0.00".
func (s Summary) AverageAmount() string {
	if s.Count == 0 {
		return "0.00"
	}

	total := decimal.New(s.TotalIncome+s.TotalExpense, -2)

	return total.Div(decimal.NewFromInt(int64(s.Count))).RoundBank(2).StringFixed(2)
}

func shares(byCategory map[string]int64, total int64, keep func(int64) bool) []CategoryShare {
	var out []CategoryShare

	for name, amount := range byCategory {
		if !keep(amount) {
			continue
		}

		out = append(out, CategoryShare{
			Category: name,
			Amount:   amount,
			Percent:  percent(amount, total),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if ai, aj := abs(out[i].Amount), abs(out[j].Amount); ai != aj {
			return ai > aj
		}

		return out[i].Category < out[j].Category
	})

	return out
}

func percent(part, total int64) string {
	if total == 0 {
		return "0.00"
	}

	p := decimal.New(part, 0).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.New(total, 0))

	return p.RoundBank(2).StringFixed(2)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
