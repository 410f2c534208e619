// Package postgres implements a Postgres storage.Repository using pgx v5.
// Saves truncate the table and bulk-load the batch with COPY.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cleanse/internal/model"
	"cleanse/internal/record"
	"cleanse/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(ctx, cfg.DSN)
	})
}

// undefinedTable is the Postgres error code for a missing relation.
const undefinedTable = "42P01"

// Store is a Postgres-backed storage.Repository.
type Store struct {
	pool *pgxpool.Pool
}

// New opens a connection pool for the given DSN.
func New(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Load reads the table's current batch; a missing relation yields an empty
// batch.
func (s *Store) Load(ctx context.Context, table string) ([]record.Record, error) {
	cols := model.Columns(table)
	if cols == nil {
		return nil, fmt.Errorf("postgres: unknown table %q", table)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), pgIdent(table))
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: query %s: %w", table, err)
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: values %s: %w", table, err)
		}
		rec := make(record.Record, len(cols))
		for i, col := range cols {
			if i < len(vals) && vals[i] != nil {
				rec[col] = record.Format(vals[i])
			} else {
				rec[col] = ""
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows %s: %w", table, err)
	}
	return out, nil
}

// Save replaces the table's batch in one transaction: ensure table,
// truncate, COPY the new rows.
func (s *Store) Save(ctx context.Context, table string, recs []record.Record) error {
	cols := model.Columns(table)
	if cols == nil {
		return fmt.Errorf("postgres: unknown table %q", table)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = pgIdent(c) + " TEXT"
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pgIdent(table), strings.Join(defs, ", "))
	if _, err := tx.Exec(ctx, create); err != nil {
		return fmt.Errorf("postgres: create table %s: %w", table, err)
	}
	if _, err := tx.Exec(ctx, "TRUNCATE "+pgIdent(table)); err != nil {
		return fmt.Errorf("postgres: truncate %s: %w", table, err)
	}

	copyRows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		row := make([]any, len(cols))
		for i, col := range cols {
			row[i] = record.Format(rec[col])
		}
		copyRows = append(copyRows, row)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, cols, pgx.CopyFromRows(copyRows)); err != nil {
		return fmt.Errorf("postgres: copy into %s: %w", table, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit %s: %w", table, err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// pgIdent double-quotes an identifier.
func pgIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
