// Package csvfile reads and writes the ledger's comma-separated table:
// a header line type,amount,category,description,date followed by one
// line per transaction.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

// Decode reads a header row and every data row from r.
// An empty input yields no transactions.
func Decode(r io.Reader) ([]core.Transaction, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h, err := core.ParseHeader(header)
	if err != nil {
		return nil, &core.RowError{Line: 1, Err: err}
	}

	var out []core.Transaction
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		tx, err := h.ParseRow(line, record)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// Encode writes the header and one row per transaction, in order.
func Encode(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		if err := cw.Write(tx.Row()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// File is a ledger backend stored as a single CSV file.
type File struct {
	Path   string
	logger *applog.Logger
}

type Option func(*File)

func WithLogger(l *applog.Logger) Option {
	return func(f *File) {
		if l != nil {
			f.logger = l
		}
	}
}

func New(path string, opts ...Option) *File {
	f := &File{Path: path}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = applog.Default(applog.ComponentStorage)
	}
	return f
}

// Load returns (nil, nil) when the file does not exist.
func (f *File) Load(ctx context.Context) ([]core.Transaction, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.DebugContext(ctx, "Ledger file not found, starting empty", "path", f.Path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer file.Close()

	txs, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	f.logger.DebugContext(ctx, "Ledger file loaded", "path", f.Path, "count", len(txs))
	return txs, nil
}

// Save truncates the file and rewrites every transaction.
func (f *File) Save(ctx context.Context, txs []core.Transaction) error {
	if dir := filepath.Dir(f.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	file, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("create ledger file: %w", err)
	}
	if err := Encode(file, txs); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", f.Path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close ledger file: %w", err)
	}
	f.logger.DebugContext(ctx, "Ledger file saved", "path", f.Path, "count", len(txs))
	return nil
}

// Close implements the backend cleanup contract; a file holds no open resources.
func (f *File) Close() error {
	return nil
}
