package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

type fakeService struct {
	store   *ledger.Store
	saves   int
	saveErr error
}

func newFakeService() *fakeService {
	now := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local) }
	return &fakeService{store: ledger.New(ledger.WithClock(now))}
}

func (f *fakeService) Add(_ context.Context, in core.Input) (core.Transaction, error) {
	return f.store.Append(in)
}

func (f *fakeService) Summary() core.Summary { return f.store.Summarize() }
func (f *fakeService) Transactions() []core.Transaction { return f.store.List() }
func (f *fakeService) Count() int { return f.store.Len() }

func (f *fakeService) Save(context.Context) error {
	f.saves++
	return f.saveErr
}

func run(t *testing.T, svc Service, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := New(svc, strings.NewReader(input), &out).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestMenu_AddAndSaveExit(t *testing.T) {
	svc := newFakeService()
	input := strings.Join([]string{
		"1", "income", "1000", "salary", "March pay", "2024-03-01",
		"1", "expense", "200", "food", "groceries", "",
		"1", "Expense", "50", "food", "lunch", "2024-03-02",
		"3",
	}, "\n") + "\n"

	out := run(t, svc, input)

	if got := strings.Count(out, "Transaction added."); got != 3 {
		t.Fatalf("expected 3 additions, got %d\n%s", got, out)
	}
	if svc.saves != 1 {
		t.Fatalf("expected one save, got %d", svc.saves)
	}
	for _, want := range []string{
		"You logged 3 transactions.",
		"Total Income: $1000.00",
		"Total Expenses: $250.00",
		"Balance: $750.00",
		"Food            $  250.00",
		"Goodbye!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	txs := svc.Transactions()
	if got := txs[1].Date.String(); got != "2024-03-15" {
		t.Errorf("blank date should default to today, got %s", got)
	}
}

func TestMenu_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bad type", "1\nloan\n", "Invalid type."},
		{"non-numeric amount", "1\nexpense\nabc\n", "Invalid amount. Please enter a number."},
		{"negative amount", "1\nexpense\n-5\n", "Amount must be greater than 0."},
		{"zero amount", "1\nincome\n0\n", "Amount must be greater than 0."},
		{"bad date", "1\nexpense\n5\nfood\nx\n13/31/2024\n", "Invalid date format. Please use YYYY-MM-DD."},
		{"bad choice", "9\n", "Invalid choice. Try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService()
			out := run(t, svc, tt.input)
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in output\n%s", tt.want, out)
			}
			if svc.Count() != 0 {
				t.Errorf("nothing should be added, got %d", svc.Count())
			}
			if svc.saves != 0 {
				t.Errorf("end of input must not save")
			}
		})
	}
}

func TestMenu_ViewEmpty(t *testing.T) {
	out := run(t, newFakeService(), "2\n4\n")
	if !strings.Contains(out, "No expense data available.") {
		t.Errorf("summary of empty ledger\n%s", out)
	}
	if !strings.Contains(out, "Total Income: $0.00") {
		t.Errorf("expected zero totals\n%s", out)
	}
	if !strings.Contains(out, "No transactions to show.") {
		t.Errorf("list of empty ledger\n%s", out)
	}
}

func TestMenu_SaveFailure(t *testing.T) {
	svc := newFakeService()
	svc.saveErr = errors.New("disk full")
	err := New(svc, strings.NewReader("3\n"), &bytes.Buffer{}).Run(context.Background())
	if !errors.Is(err, svc.saveErr) {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestWriteTransactions(t *testing.T) {
	var out bytes.Buffer
	WriteTransactions(&out, []core.Transaction{{
		Type:        core.Expense,
		Amount:      decimal.RequireFromString("12.5"),
		Category:    "food",
		Description: "pizza",
		Date:        core.NewDate(2024, 1, 2),
	}})

	lines := strings.Split(strings.TrimPrefix(out.String(), "\n"), "\n")
	if len(lines) < 4 {
		t.Fatalf("unexpected output: %q", out.String())
	}
	if lines[1] != "Date         Type         Amount  Category        Description                   " {
		t.Errorf("header = %q", lines[1])
	}
	if lines[2] != strings.Repeat("-", 78) {
		t.Errorf("rule = %q", lines[2])
	}
	if lines[3] != "2024-01-02   Expense  $    12.50  food            pizza                         " {
		t.Errorf("row = %q", lines[3])
	}
}

func TestMenu_CancelWhileWaitingForInput(t *testing.T) {
	tests := []struct {
		name  string
		typed string
	}{
		{"at menu prompt", ""},
		{"in the middle of an add", "1\nexpense\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService()
			pr, pw := io.Pipe()
			t.Cleanup(func() { pw.Close() })

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- New(svc, pr, io.Discard).Run(ctx)
			}()

			if tt.typed != "" {
				if _, err := io.WriteString(pw, tt.typed); err != nil {
					t.Fatalf("write input: %v", err)
				}
			}
			cancel()

			select {
			case err := <-done:
				if !errors.Is(err, context.Canceled) {
					t.Fatalf("expected context.Canceled, got %v", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Run did not return after cancellation")
			}
			if svc.Count() != 0 || svc.saves != 0 {
				t.Fatalf("cancelled menu must not add or save (count=%d saves=%d)", svc.Count(), svc.saves)
			}
		})
	}
}
