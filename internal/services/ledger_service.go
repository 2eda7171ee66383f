package services

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
)

// Backend is where the ledger is persisted as a whole.
type Backend interface {
	ledger.Loader
	ledger.Saver
}

// Publisher announces recorded transactions. It is optional.
type Publisher interface {
	Publish(ctx context.Context, tx core.Transaction) error
	Close() error
}

// LedgerService orchestrates the store with its backend and event publisher
type LedgerService struct {
	store     *ledger.Store
	backend   Backend
	publisher Publisher
	cleanup   func() error
	logger    *applog.Logger
}

type Option func(*LedgerService)

// WithPublisher enables events for every recorded transaction.
func WithPublisher(p Publisher) Option {
	return func(s *LedgerService) {
		s.publisher = p
	}
}

// WithCleanup registers a function run by Close, typically the backend's.
func WithCleanup(fn func() error) Option {
	return func(s *LedgerService) {
		s.cleanup = fn
	}
}

// WithLogger replaces the default logger. A nil logger is ignored.
func WithLogger(l *applog.Logger) Option {
	return func(s *LedgerService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewLedgerService(store *ledger.Store, backend Backend, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:   store,
		backend: backend,
		logger:  applog.Default(applog.ComponentStore),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(applog.ComponentStore)
	return s
}

// Load appends the backend's transactions to the store.
func (s *LedgerService) Load(ctx context.Context) error {
	if err := s.store.LoadFrom(ctx, s.backend); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load ledger", applog.NewFields().
			WithOperation(applog.OpLoad).
			WithErrorType(applog.ErrorTypeParse).
			WithError(err).ToSlice()...)
		return err
	}
	s.logger.InfoContext(ctx, "Ledger loaded", applog.FieldOperation, applog.OpLoad, applog.FieldCount, s.store.Len())
	return nil
}

// Add validates and records a transaction, then publishes it. A publish
// failure is logged and never undoes the append.
func (s *LedgerService) Add(ctx context.Context, in core.Input) (core.Transaction, error) {
	tx, err := s.store.Append(in)
	if err != nil {
		s.logger.DebugContext(ctx, "Transaction rejected", applog.NewFields().
			WithOperation(applog.OpAppend).
			WithErrorType(applog.ErrorTypeValidation).
			WithError(err).ToSlice()...)
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction recorded", applog.NewFields().
		WithOperation(applog.OpAppend).
		WithTransaction(tx.Type.String(), tx.Amount.String(), tx.Category, tx.Date.String()).ToSlice()...)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, tx); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish transaction event", applog.NewFields().
				WithOperation(applog.OpPublish).
				WithErrorType(applog.ErrorTypeNetwork).
				WithError(err).ToSlice()...)
		}
	}
	return tx, nil
}

// Save writes the whole store to the backend.
func (s *LedgerService) Save(ctx context.Context) error {
	if err := s.store.SaveTo(ctx, s.backend); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save ledger", applog.NewFields().
			WithOperation(applog.OpSave).
			WithErrorType(applog.ErrorTypeStorage).
			WithError(err).ToSlice()...)
		return err
	}
	s.logger.InfoContext(ctx, "Ledger saved", applog.FieldOperation, applog.OpSave, applog.FieldCount, s.store.Len())
	return nil
}

func (s *LedgerService) Summary() core.Summary {
	return s.store.Summarize()
}

func (s *LedgerService) Transactions() []core.Transaction {
	return s.store.List()
}

func (s *LedgerService) Count() int {
	return s.store.Len()
}

// Close releases the backend and publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.cleanup != nil {
		if err := s.cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("backend: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	return errors.Join(errs...)
}
