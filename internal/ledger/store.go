// Package ledger holds the in-memory transaction store: an ordered,
// append-only sequence of validated transactions that is loaded from and
// saved to a backend as a whole.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ledger/internal/core"
	"ledger/internal/storage/csvfile"
)

// Loader yields every stored transaction in order.
type Loader interface {
	Load(ctx context.Context) ([]core.Transaction, error)
}

// Saver replaces the stored set with txs.
type Saver interface {
	Save(ctx context.Context, txs []core.Transaction) error
}

type Store struct {
	mu    sync.Mutex
	now   func() time.Time
	items []core.Transaction
}

type Option func(*Store)

// WithClock sets the clock used to fill in missing dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load appends the transactions stored in the CSV file at path.
// A missing file is not an error.
func (s *Store) Load(path string) error {
	return s.LoadFrom(context.Background(), csvfile.New(path))
}

// Save rewrites the CSV file at path with the whole store.
func (s *Store) Save(path string) error {
	return s.SaveTo(context.Background(), csvfile.New(path))
}

// LoadFrom appends everything src yields. Nothing is appended when src fails,
// and earlier contents are kept: repeated loads accumulate.
func (s *Store) LoadFrom(ctx context.Context, src Loader) error {
	txs, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("load transactions: record %d: %w", i+1, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, txs...)
	return nil
}

// SaveTo hands a snapshot of the store to dst.
func (s *Store) SaveTo(ctx context.Context, dst Saver) error {
	if err := dst.Save(ctx, s.List()); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	return nil
}

// Append validates in and adds it at the end. An empty date becomes today.
// On failure the returned error is a *core.ValidationError and the store is unchanged.
func (s *Store) Append(in core.Input) (core.Transaction, error) {
	typ, err := core.ParseType(in.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	var date core.Date
	if raw := strings.TrimSpace(in.Date); raw == "" {
		date = core.Today(s.now())
	} else if date, err = core.ParseDate(raw); err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		Type:        typ,
		Amount:      amount,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        date,
	}
	s.mu.Lock()
	s.items = append(s.items, tx)
	s.mu.Unlock()
	return tx, nil
}

// List returns a copy of every transaction in insertion order.
func (s *Store) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...)
}

func (s *Store) Summarize() core.Summary {
	return core.Summarize(s.List())
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
