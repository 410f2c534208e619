package storage

import (
	"context"
	"strings"
	"testing"

	"cleanse/internal/record"
)

type fakeRepo struct{}

func (fakeRepo) Load(context.Context, string) ([]record.Record, error) { return nil, nil }
func (fakeRepo) Save(context.Context, string, []record.Record) error   { return nil }
func (fakeRepo) Close() error                                          { return nil }

func TestRegisterAndNew(t *testing.T) {
	var got Config
	Register("faketest", func(_ context.Context, cfg Config) (Repository, error) {
		got = cfg
		return fakeRepo{}, nil
	})

	cfg := Config{Kind: "faketest", DSN: "dsn://x"}
	repo, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if repo == nil {
		t.Fatal("nil repository")
	}
	if got.DSN != "dsn://x" {
		t.Errorf("factory config = %+v", got)
	}
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(context.Background(), Config{Kind: "no-such-backend"})
	if err == nil {
		t.Fatal("unknown kind accepted")
	}
	if !strings.Contains(err.Error(), "no-such-backend") {
		t.Errorf("error does not name the kind: %v", err)
	}
}

func TestKindsSorted(t *testing.T) {
	Register("zz-test", func(context.Context, Config) (Repository, error) { return fakeRepo{}, nil })
	Register("aa-test", func(context.Context, Config) (Repository, error) { return fakeRepo{}, nil })
	kinds := Kinds()
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1] > kinds[i] {
			t.Fatalf("kinds not sorted: %v", kinds)
		}
	}
}
