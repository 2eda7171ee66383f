package core

import (
	"errors"
	"fmt"
	"strings"
)

// Columns is the fixed field order of every persisted table.
var Columns = []string{"type", "amount", "category", "description", "date"}

var (
	ErrMissingColumn = errors.New("missing column")
	ErrUnknownColumn = errors.New("unknown column")
	ErrShortRow      = errors.New("row has fewer fields than header")
)

// RowError reports a persisted row that cannot become a Transaction.
type RowError struct {
	Line  int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: field %s: %v", e.Line, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Header maps each of Columns to its position in a stored header row.
type Header struct {
	pos [5]int
}

// ParseHeader matches header cells to Columns by name. Order is free, but
// every column must be present exactly once and no other column is allowed.
func ParseHeader(cells []string) (Header, error) {
	var h Header
	for i := range h.pos {
		h.pos[i] = -1
	}
	for i, cell := range cells {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		col := columnIndex(name)
		if col < 0 || h.pos[col] >= 0 {
			return Header{}, fmt.Errorf("%w %q", ErrUnknownColumn, name)
		}
		h.pos[col] = i
	}
	var missing []string
	for i, p := range h.pos {
		if p < 0 {
			missing = append(missing, Columns[i])
		}
	}
	if len(missing) > 0 {
		return Header{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ","))
	}
	return h, nil
}

func columnIndex(name string) int {
	for i, c := range Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ParseRow converts one stored row into a Transaction. Line is only used for errors.
func (h Header) ParseRow(line int, cells []string) (Transaction, error) {
	get := func(col int) (string, error) {
		p := h.pos[col]
		if p >= len(cells) {
			return "", &RowError{Line: line, Field: Columns[col], Err: ErrShortRow}
		}
		return cells[p], nil
	}

	var raw [5]string
	for i := range raw {
		v, err := get(i)
		if err != nil {
			return Transaction{}, err
		}
		raw[i] = v
	}

	typ, err := ParseType(raw[0])
	if err != nil {
		return Transaction{}, &RowError{Line: line, Field: "type", Err: err}
	}
	amount, err := ParseAmount(raw[1])
	if err != nil {
		return Transaction{}, &RowError{Line: line, Field: "amount", Err: err}
	}
	date, err := ParseDate(raw[4])
	if err != nil {
		return Transaction{}, &RowError{Line: line, Field: "date", Err: err}
	}
	return Transaction{
		Type:        typ,
		Amount:      amount,
		Category:    raw[2],
		Description: raw[3],
		Date:        date,
	}, nil
}

// Row returns t in Columns order, amount in its natural decimal form.
func (t Transaction) Row() []string {
	return []string{
		t.Type.String(),
		t.Amount.String(),
		t.Category,
		t.Description,
		t.Date.String(),
	}
}
