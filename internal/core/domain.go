package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the ISO calendar date form used on disk and on screen.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Transaction struct {
		Type        TransactionType
		Amount      decimal.Decimal
		Category    string
		Description string
		Date        Date
	}

	// Input is a transaction as typed by a user, before validation.
	Input struct {
		Type        string
		Amount      string
		Category    string
		Description string
		Date        string
	}
)

var (
	ErrInvalidType       = errors.New("invalid type")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNonPositiveAmount = errors.New("amount must be greater than 0")
	ErrInvalidDate       = errors.New("invalid date format")
)

// ValidationError wraps one of the sentinel errors above with the offending field and value.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseType accepts income or expense in any case, surrounded by spaces or not.
func ParseType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", &ValidationError{Field: "type", Value: s, Err: ErrInvalidType}
	}
	return t, nil
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// Title returns the display form, e.g. "Income".
func (t TransactionType) Title() string {
	return Capitalize(string(t))
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	tm, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Value: s, Err: ErrInvalidDate}
	}
	return Date{Time: tm}, nil
}

// Today returns the local calendar date of now.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return NewDate(y, int(m), d)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Value: "", Err: ErrInvalidDate}
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return &ValidationError{Field: "type", Value: string(t.Type), Err: ErrInvalidType}
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	return t.Date.Validate()
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
