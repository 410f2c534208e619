// Package mysql implements a MySQL storage.Repository over database/sql
// with the go-sql-driver driver.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"cleanse/internal/model"
	"cleanse/internal/record"
	"cleanse/internal/storage"
)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(ctx, cfg.DSN)
	})
}

// errNoSuchTable is MySQL error 1146 (ER_NO_SUCH_TABLE).
const errNoSuchTable = 1146

// Store is a MySQL-backed storage.Repository.
type Store struct {
	db *sql.DB
}

// New opens a MySQL connection, e.g. DSN "user:pass@tcp(host:3306)/cleanse".
func New(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// Load reads the table's current batch; a missing table yields an empty
// batch.
func (s *Store) Load(ctx context.Context, table string) ([]record.Record, error) {
	cols := model.Columns(table)
	if cols == nil {
		return nil, fmt.Errorf("mysql: unknown table %q", table)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		var myErr *gomysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == errNoSuchTable {
			return nil, nil
		}
		return nil, fmt.Errorf("mysql: query %s: %w", table, err)
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
			return nil, fmt.Errorf("mysql: scan %s: %w", table, err)
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
		return nil, fmt.Errorf("mysql: rows %s: %w", table, err)
	}
	return out, nil
}

// Save replaces the table's batch in one transaction.
func (s *Store) Save(ctx context.Context, table string, recs []record.Record) error {
	cols := model.Columns(table)
	if cols == nil {
		return fmt.Errorf("mysql: unknown table %q", table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mysql: begin tx: %w", err)
	}
	defer tx.Rollback()

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = c + " TEXT"
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("mysql: create table %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("mysql: clear %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("mysql: prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for _, rec := range recs {
		for i, col := range cols {
			args[i] = record.Format(rec[col])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("mysql: insert into %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mysql: commit %s: %w", table, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
