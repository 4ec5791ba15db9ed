package schedule

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

func TestFileStore_MissingIsCacheMiss(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "cache.json"))
	if _, _, err := store.Load(context.Background()); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestFileStore_SaveOverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "cache.json"))
	ctx := context.Background()

	if err := store.Save(ctx, []byte(`{"current_week": 1}`)); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := store.Save(ctx, []byte(`{"current_week": 2}`)); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	payload, savedAt, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(payload) != `{"current_week": 2}` {
		t.Errorf("unexpected payload %s", payload)
	}
	if savedAt.IsZero() {
		t.Errorf("saved-at must be set")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the cache file, got %d entries", len(entries))
	}
}

func TestFileStore_SaveIntoMissingDirectoryFails(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "cache.json"))
	if err := store.Save(context.Background(), []byte(`{}`)); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func openSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLStore_RoundTripAndUpsert(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLStore(ctx, openSQLite(t))
	if err != nil {
		t.Fatalf("NewSQLStore failed: %v", err)
	}

	if _, _, err := store.Load(ctx); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss on empty table, got %v", err)
	}

	if err := store.Save(ctx, []byte(`{"current_week": 1}`)); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := store.Save(ctx, []byte(`{"current_week": 2}`)); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	payload, savedAt, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(payload) != `{"current_week": 2}` {
		t.Errorf("unexpected payload %s", payload)
	}
	if savedAt.IsZero() {
		t.Errorf("saved-at must be set")
	}

	var count int
	if err := store.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM schedule_cache`); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single cache slot, got %d rows", count)
	}
}
