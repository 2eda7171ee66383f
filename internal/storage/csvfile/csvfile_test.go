package csvfile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

func sample() []core.Transaction {
	return []core.Transaction{
		{Type: core.Income, Amount: decimal.RequireFromString("1000.00"), Category: "salary", Date: core.NewDate(2024, 1, 1)},
		{Type: core.Expense, Amount: decimal.RequireFromString("12.345"), Category: "food", Description: "lunch, with \"friends\"", Date: core.NewDate(2024, 1, 2)},
		{Type: core.Expense, Amount: decimal.RequireFromString("12.345"), Category: "food", Description: "lunch, with \"friends\"", Date: core.NewDate(2024, 1, 2)},
	}
}

func TestEncodeHeaderAndNativeAmounts(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sample()[:1]); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "type,amount,category,description,date\nincome,1000,salary,,2024-01-01\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestRoundTrip(t *testing.T) {
	in := sample()
	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(out))
	}
	for i := range in {
		a, b := in[i], out[i]
		if a.Type != b.Type || !a.Amount.Equal(b.Amount) || a.Category != b.Category ||
			a.Description != b.Description || !a.Date.Equal(b.Date.Time) {
			t.Fatalf("row %d: got %+v, want %+v", i, b, a)
		}
	}
}

func TestDecodeReferenceFile(t *testing.T) {
	// Float-style amounts as written by earlier versions of the tracker.
	in := "type,amount,category,description,date\r\n" +
		"income,1000.0,salary,,2024-01-01\r\n" +
		"expense,200.0,food,groceries,2024-01-02\r\n"
	out, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || !out[1].Amount.Equal(decimal.NewFromInt(200)) || out[1].Description != "groceries" {
		t.Fatalf("unexpected rows: %+v", out)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		err  error
		line int
	}{
		{"non numeric amount", "type,amount,category,description,date\nincome,1000,salary,,2024-01-01\nexpense,lots,food,,2024-01-02\n", core.ErrInvalidAmount, 3},
		{"bad type", "type,amount,category,description,date\nloan,5,bank,,2024-01-01\n", core.ErrInvalidType, 2},
		{"bad date", "type,amount,category,description,date\nincome,5,bank,,01/01/2024\n", core.ErrInvalidDate, 2},
		{"unpadded date", "type,amount,category,description,date\nincome,1,gift,,2024-01-01\nexpense,5.0,food,,2024-1-5\n", core.ErrInvalidDate, 3},
		{"unknown column", "type,amount,category,description,date,note\n", core.ErrUnknownColumn, 1},
		{"missing column", "type,amount,category,date\n", core.ErrMissingColumn, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.in))
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			var rowErr *core.RowError
			if !errors.As(err, &rowErr) || rowErr.Line != tc.line {
				t.Fatalf("expected row error on line %d, got %v", tc.line, err)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	out, err := Decode(strings.NewReader(""))
	if err != nil || len(out) != 0 {
		t.Fatalf("expected nothing, got %v (err=%v)", out, err)
	}
	out, err = Decode(strings.NewReader("type,amount,category,description,date\n"))
	if err != nil || len(out) != 0 {
		t.Fatalf("expected nothing, got %v (err=%v)", out, err)
	}
}

func TestFileLoadMissing(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "missing.csv"))
	txs, err := f.Load(context.Background())
	if err != nil || txs != nil {
		t.Fatalf("expected no-op, got %v (err=%v)", txs, err)
	}
}

func TestFileSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "transactions.csv")
	f := New(path)
	ctx := context.Background()

	if err := f.Save(ctx, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := f.Save(ctx, sample()[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 2 {
		t.Fatalf("expected header plus one row, got %d lines:\n%s", lines, data)
	}

	txs, err := f.Load(ctx)
	if err != nil || len(txs) != 1 {
		t.Fatalf("unexpected load: %v (err=%v)", txs, err)
	}
}
