// Package storage defines the persistence collaborator for cleaned tables
// and a factory over interchangeable backends.
//
// The contract is deliberately thin: batches of generic records keyed by
// table name. Loading a table that does not exist yet yields an empty batch
// rather than an error, so the integrity resolver can run against empty
// reference sets. Saving replaces the table's previous batch; writes to
// distinct tables are independent and may run concurrently.
//
// Concrete backends live in subpackages and register themselves at init
// time; importing the storage/all package (usually as a blank import in the
// wiring layer) makes every built-in backend available.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cleanse/internal/record"
)

// Repository is the persistence collaborator.
type Repository interface {
	// Load returns the table's current batch, or an empty batch when the
	// table has never been saved.
	Load(ctx context.Context, table string) ([]record.Record, error)
	// Save replaces the table's batch.
	Save(ctx context.Context, table string, recs []record.Record) error
	Close() error
}

// Config selects and configures a backend. It is injected explicitly into
// constructors; backends never read ambient globals.
type Config struct {
	// Kind selects the backend: "csv", "sqlite", "postgres", "mysql".
	Kind string
	// DSN is the connection string for database backends.
	DSN string
	// Dir is the data directory for the csv backend.
	Dir string
}

// Factory constructs a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var registry = map[string]Factory{}

// Register installs a backend factory under kind. Backends call this from
// init.
func Register(kind string, f Factory) {
	registry[kind] = f
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	f, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %s)", cfg.Kind, strings.Join(Kinds(), ", "))
	}
	return f(ctx, cfg)
}

// Kinds lists the registered backend kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
