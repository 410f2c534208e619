// Package csvstore implements a file-per-table CSV storage backend. It is
// the default backend: each table lives in <dir>/<table>.csv with a header
// row in the canonical column order.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cleanse/internal/model"
	"cleanse/internal/record"
	"cleanse/internal/storage"
)

func init() {
	storage.Register("csv", func(_ context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(cfg.Dir)
	})
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Store is a CSV directory-backed storage.Repository.
type Store struct {
	dir string
}

// New creates the data directory if needed and returns a Store.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("csvstore: dir must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("csvstore: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}

// Load reads the table's file. A missing file is an empty batch, not an
// error. Cell values stay strings; typed coercion happens at decode.
func (s *Store) Load(_ context.Context, table string) ([]record.Record, error) {
	if !model.KnownTable(table) {
		return nil, fmt.Errorf("csvstore: unknown table %q", table)
	}
	f, err := os.Open(s.path(table))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("csvstore: open %s: %w", table, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvstore: read %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	out := make([]record.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(record.Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Save writes the batch to a temp file and renames it into place, so a
// failed write never truncates the previous snapshot.
func (s *Store) Save(_ context.Context, table string, recs []record.Record) error {
	cols := model.Columns(table)
	if cols == nil {
		return fmt.Errorf("csvstore: unknown table %q", table)
	}

	tmp, err := os.CreateTemp(s.dir, table+".*.tmp")
	if err != nil {
		return fmt.Errorf("csvstore: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(cols); err != nil {
		tmp.Close()
		return fmt.Errorf("csvstore: write header: %w", err)
	}
	row := make([]string, len(cols))
	for _, rec := range recs {
		for i, col := range cols {
			row[i] = record.Format(rec[col])
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("csvstore: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("csvstore: flush %s: %w", table, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csvstore: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(table)); err != nil {
		return fmt.Errorf("csvstore: rename: %w", err)
	}
	return nil
}

// Close is a no-op; files are closed per operation.
func (s *Store) Close() error { return nil }
