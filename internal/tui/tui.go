// Package tui implements the interactive menu of the ledger.
package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

// Service is what the menu needs from the application.
type Service interface {
	Add(ctx context.Context, in core.Input) (core.Transaction, error)
	Summary() core.Summary
	Transactions() []core.Transaction
	Save(ctx context.Context) error
	Count() int
}

// errEndOfInput stops the menu quietly when the input is exhausted.
var errEndOfInput = errors.New("end of input")

// Menu reads choices from in and writes everything the user sees to out.
type Menu struct {
	svc    Service
	in     io.Reader
	out    io.Writer
	logger *applog.Logger
	lines  <-chan string
}

type Option func(*Menu)

func WithLogger(l *applog.Logger) Option {
	return func(m *Menu) {
		if l != nil {
			m.logger = l
		}
	}
}

func New(svc Service, in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		svc:    svc,
		in:     in,
		out:    out,
		logger: applog.Default(applog.ComponentTUI),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run loops until the user saves and exits, input ends or ctx is done.
// End of input stops the loop without saving and returns nil. A cancelled
// ctx returns its error at once, even while a prompt is waiting.
func (m *Menu) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.lines = readLines(ctx, m.in)

	err := m.loop(ctx)
	if errors.Is(err, errEndOfInput) {
		m.logger.DebugContext(ctx, "Input closed, leaving menu without saving")
		return nil
	}
	return err
}

func (m *Menu) loop(ctx context.Context) error {
	for {
		m.showMenu()
		choice, err := m.prompt(ctx, "Choose an option (1–4): ")
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if err := m.addTransaction(ctx); err != nil {
				return err
			}
		case "2":
			WriteSummary(m.out, m.svc.Summary())
		case "3":
			if err := m.svc.Save(ctx); err != nil {
				return fmt.Errorf("save ledger: %w", err)
			}
			fmt.Fprintln(m.out, "Data saved to file.")
			fmt.Fprintf(m.out, "\nYou logged %d transactions.\n", m.svc.Count())
			WriteSummary(m.out, m.svc.Summary())
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		case "4":
			WriteTransactions(m.out, m.svc.Transactions())
		default:
			fmt.Fprintln(m.out, "Invalid choice. Try again.")
		}
	}
}

// readLines feeds lines from r until r is exhausted or ctx is done. The
// channel is closed at end of input.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func (m *Menu) showMenu() {
	fmt.Fprintln(m.out, "\n--- Personal Finance Tracker ---")
	fmt.Fprintln(m.out, "1. Add Transaction")
	fmt.Fprintln(m.out, "2. View Summary")
	fmt.Fprintln(m.out, "3. Save & Exit")
	fmt.Fprintln(m.out, "4. View All Transactions")
}

// addTransaction asks for each field in turn and gives up on the first
// invalid answer. Only end of input or cancellation is returned.
func (m *Menu) addTransaction(ctx context.Context) error {
	var in core.Input
	var err error

	if in.Type, err = m.prompt(ctx, "Type (income/expense): "); err != nil {
		return err
	}
	if _, err := core.ParseType(in.Type); err != nil {
		m.reportInvalid(ctx, err)
		return nil
	}

	if in.Amount, err = m.prompt(ctx, "Amount: $"); err != nil {
		return err
	}
	if _, err := core.ParseAmount(in.Amount); err != nil {
		m.reportInvalid(ctx, err)
		return nil
	}

	if in.Category, err = m.prompt(ctx, "Category (e.g. food, rent, salary): "); err != nil {
		return err
	}
	if in.Description, err = m.prompt(ctx, "Description: "); err != nil {
		return err
	}
	if in.Date, err = m.prompt(ctx, "Date (YYYY-MM-DD) [Leave blank for today]: "); err != nil {
		return err
	}

	if _, err := m.svc.Add(ctx, in); err != nil {
		m.reportInvalid(ctx, err)
		return nil
	}
	fmt.Fprintln(m.out, "Transaction added.")
	return nil
}

func (m *Menu) reportInvalid(ctx context.Context, err error) {
	m.logger.DebugContext(ctx, "Input rejected", applog.NewFields().
		WithOperation(applog.OpAppend).
		WithErrorType(applog.ErrorTypeValidation).
		WithError(err).ToSlice()...)
	fmt.Fprintln(m.out, invalidMessage(err))
}

func invalidMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidType):
		return "Invalid type."
	case errors.Is(err, core.ErrNonPositiveAmount):
		return "Amount must be greater than 0."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid amount. Please enter a number."
	case errors.Is(err, core.ErrInvalidDate):
		return "Invalid date format. Please use YYYY-MM-DD."
	default:
		return err.Error()
	}
}

func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(m.out, label)
	select {
	case <-ctx.Done():
		fmt.Fprintln(m.out)
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			fmt.Fprintln(m.out)
			return "", errEndOfInput
		}
		return line, nil
	}
}
