package tui

import (
	"fmt"
	"io"
	"strings"

	"ledger/internal/core"
)

const ruleWidth = 78

// WriteSummary prints totals followed by the expense breakdown by category.
func WriteSummary(w io.Writer, s core.Summary) {
	fmt.Fprintln(w, "\n--- Financial Summary ---")
	fmt.Fprintf(w, "Total Income: $%s\n", core.FormatAmount(s.TotalIncome))
	fmt.Fprintf(w, "Total Expenses: $%s\n", core.FormatAmount(s.TotalExpense))
	fmt.Fprintf(w, "Balance: $%s\n", core.FormatAmount(s.Balance))

	fmt.Fprintln(w, "\n--- Expenses by Category ---")
	if len(s.CategoryTotals) == 0 {
		fmt.Fprintln(w, "No expense data available.")
		return
	}
	for _, c := range s.CategoryTotals {
		fmt.Fprintf(w, "%-15s $%8s\n", core.Capitalize(c.Name), core.FormatAmount(c.Amount))
	}
}

// WriteTransactions prints every transaction as one table row.
func WriteTransactions(w io.Writer, txs []core.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(w, "No transactions to show.")
		return
	}

	fmt.Fprintln(w, "\n--- All Transactions ---")
	fmt.Fprintf(w, "%-12s %-8s %10s  %-15s %-30s\n", "Date", "Type", "Amount", "Category", "Description")
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	for _, t := range txs {
		fmt.Fprintf(w, "%-12s %-8s $%9s  %-15s %-30s\n",
			t.Date.String(), t.Type.Title(), core.FormatAmount(t.Amount), t.Category, t.Description)
	}
}
