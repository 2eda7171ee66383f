package google

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Values as the API returns them with UNFORMATTED_VALUE: numbers typed in
// by hand come back as float64, trailing empty cells are dropped.
func TestParseTable(t *testing.T) {
	values := [][]interface{}{
		{"type", "amount", "category", "description", "date"},
		{"income", 1000.0, "salary", "", "2024-01-01"},
		{},
		{"expense", "200", "food", "groceries", "2024-01-02"},
		{"expense", 0.125, "Fees", "bank", "2024-01-03"},
	}
	txs, err := parseTable(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	if !txs[0].Amount.Equal(decimal.NewFromInt(1000)) || txs[0].Type != core.Income {
		t.Fatalf("unexpected first row: %+v", txs[0])
	}
	if !txs[2].Amount.Equal(decimal.RequireFromString("0.125")) || txs[2].Category != "Fees" {
		t.Fatalf("unexpected last row: %+v", txs[2])
	}
}

func TestParseTable_PadsShortRows(t *testing.T) {
	values := [][]interface{}{
		{"type", "amount", "category", "date", "description"},
		{"expense", "3", "food", "2024-01-02"},
	}
	txs, err := parseTable(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(txs) != 1 || txs[0].Description != "" {
		t.Fatalf("unexpected rows: %+v", txs)
	}
}

func TestParseTable_Errors(t *testing.T) {
	if txs, err := parseTable(nil); err != nil || txs != nil {
		t.Fatalf("empty sheet: %v %v", txs, err)
	}

	_, err := parseTable([][]interface{}{{"type", "amount", "category"}})
	if !errors.Is(err, core.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}

	_, err = parseTable([][]interface{}{
		{"type", "amount", "category", "description", "date"},
		{"expense", "n/a", "food", "", "2024-01-02"},
	})
	var rowErr *core.RowError
	if !errors.As(err, &rowErr) || rowErr.Line != 2 || !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected amount error on line 2, got %v", err)
	}
}

func TestBuildTableRoundTrip(t *testing.T) {
	in := []core.Transaction{
		{Type: core.Income, Amount: decimal.RequireFromString("1000.50"), Category: "salary", Description: "jan", Date: core.NewDate(2024, 1, 1)},
		{Type: core.Expense, Amount: decimal.RequireFromString("7"), Category: "food", Date: core.NewDate(2024, 1, 2)},
	}
	values := buildTable(in)
	if len(values) != 3 || values[0][0] != "type" || values[1][1] != "1000.5" {
		t.Fatalf("unexpected table: %v", values)
	}
	out, err := parseTable(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	for i := range in {
		if out[i].Type != in[i].Type || !out[i].Amount.Equal(in[i].Amount) || out[i].Date != in[i].Date {
			t.Fatalf("row %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestLoadWithoutService(t *testing.T) {
	c := &Client{}
	if _, err := c.Load(context.Background()); err == nil {
		t.Fatal("expected error without service")
	}
	if err := c.Save(context.Background(), nil); err == nil {
		t.Fatal("expected error without service")
	}
}
