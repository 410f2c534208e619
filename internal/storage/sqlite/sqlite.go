// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. Saves run as batched INSERTs inside a transaction; SQLite
// has no dedicated bulk-load API, but transactions keep performance
// acceptable for these batch sizes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"cleanse/internal/model"
	"cleanse/internal/record"
	"cleanse/internal/storage"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(ctx, cfg.DSN)
	})
}

// Store is a SQLite-backed storage.Repository. All columns are stored as
// TEXT; typed coercion happens at decode.
type Store struct {
	db *sql.DB
}

// New opens a SQLite database. DSN is passed to database/sql directly, e.g.
// "cleanse.db" or "file:cleanse.db?cache=shared".
func New(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// Load reads the table's current batch. A table that was never saved yields
// an empty batch.
func (s *Store) Load(ctx context.Context, table string) ([]record.Record, error) {
	cols := model.Columns(table)
	if cols == nil {
		return nil, fmt.Errorf("sqlite: unknown table %q", table)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: query %s: %w", table, err)
	}
	defer rows.Close()

	var out []record.Record
	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: scan %s: %w", table, err)
		}
		rec := make(record.Record, len(cols))
		for i, col := range cols {
			if vals[i].Valid {
				rec[col] = vals[i].String
			} else {
				rec[col] = ""
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: rows %s: %w", table, err)
	}
	return out, nil
}

// Save replaces the table's batch inside one transaction: ensure table,
// delete previous rows, insert the new batch via a prepared statement.
func (s *Store) Save(ctx context.Context, table string, recs []record.Record) error {
	cols := model.Columns(table)
	if cols == nil {
		return fmt.Errorf("sqlite: unknown table %q", table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableSQL(table, cols)); err != nil {
		return fmt.Errorf("sqlite: create table %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("sqlite: clear %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for _, rec := range recs {
		for i, col := range cols {
			args[i] = record.Format(rec[col])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("sqlite: insert into %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit %s: %w", table, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func createTableSQL(table string, cols []string) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = c + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
}
