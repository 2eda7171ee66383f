package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is the aggregate view over a set of transactions.
type Summary struct {
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	Balance        decimal.Decimal
	CategoryTotals []CategoryAmount // expenses only, first-seen order
}

// Summarize folds transactions into totals. Category keys are kept as stored.
func Summarize(txs []Transaction) Summary {
	s := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	index := map[string]int{}
	for _, t := range txs {
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			i, ok := index[t.Category]
			if !ok {
				i = len(s.CategoryTotals)
				index[t.Category] = i
				s.CategoryTotals = append(s.CategoryTotals, CategoryAmount{Name: t.Category, Amount: decimal.Zero})
			}
			s.CategoryTotals[i].Amount = s.CategoryTotals[i].Amount.Add(t.Amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}
