package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"ledger/internal/core"
	applog "ledger/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	path    string
	logger  *applog.Logger
}

type RepositoryOption func(*SQLiteRepository)

// WithLogger sets the logger used for load and save events.
func WithLogger(l *applog.Logger) RepositoryOption {
	return func(r *SQLiteRepository) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewSQLiteRepository(dbPath string, opts ...RepositoryOption) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	change, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
		path:    dbPath,
		logger:  applog.Default(applog.ComponentStorage),
	}
	for _, opt := range opts {
		opt(repo)
	}
	if change.Changed() {
		repo.logger.Info("Ledger schema migrated", "path", dbPath, "from", change.From, "to", change.To)
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load returns every stored transaction ordered by position.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	h, err := core.ParseHeader(core.Columns)
	if err != nil {
		return nil, err
	}

	txs := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := h.ParseRow(int(row.Position), []string{row.Type, row.Amount, row.Category, row.Description, row.Date})
		if err != nil {
			return nil, fmt.Errorf("decode position %d: %w", row.Position, err)
		}
		txs = append(txs, tx)
	}

	r.logger.DebugContext(ctx, "Transactions loaded from SQLite", "path", r.path, "count", len(txs))
	return txs, nil
}

// Save replaces the whole table with txs inside one SQL transaction.
func (r *SQLiteRepository) Save(ctx context.Context, txs []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllTransactions(ctx); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	for i, t := range txs {
		row := t.Row()
		err := q.InsertTransaction(ctx, TransactionRow{
			Position:    int64(i + 1),
			Type:        row[0],
			Amount:      row[1],
			Category:    row[2],
			Description: row[3],
			Date:        row[4],
		})
		if err != nil {
			return fmt.Errorf("insert transaction %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.logger.InfoContext(ctx, "Transactions saved to SQLite", "path", r.path, "count", len(txs))
	return nil
}
