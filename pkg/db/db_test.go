package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/line-index/pkg/mapreduce"
	"github.com/dtnitsch/line-index/pkg/mapreduce/storetest"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intermediate.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if database.Path() != path {
		t.Errorf("Path() = %q, want %q", database.Path(), path)
	}

	for _, table := range []string{"runs", "intermediate"} {
		var name string
		err := database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	// Reopening an initialized database must not fail
	database.Close()
	again, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	again.Close()
}

func TestOpen_DefaultsToMemory(t *testing.T) {
	database, err := Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer database.Close()

	if database.Path() != DefaultDBPath {
		t.Errorf("Path() = %q, want %q", database.Path(), DefaultDBPath)
	}
}

func TestNewStore_DuplicateRun(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	ctx := context.Background()

	if _, err := database.NewStore(ctx, "run-1"); err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, err := database.NewStore(ctx, "run-1"); err == nil {
		t.Error("NewStore() with a duplicate run ID should fail")
	}
}

func TestStore_RunsAreIsolated(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	ctx := context.Background()

	a, err := database.NewStore(ctx, "run-a")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	b, err := database.NewStore(ctx, "run-b")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if err := a.Append(ctx, 0, []mapreduce.KeyValue{{Key: "CAT", Value: "0:1"}}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	keys, err := b.Keys(ctx, 0)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("run-b sees keys of run-a: %v", keys)
	}

	if a.RunID() != "run-a" {
		t.Errorf("RunID() = %q, want %q", a.RunID(), "run-a")
	}
}

func TestStore_CloseDeletesRecords(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	ctx := context.Background()

	s, err := database.NewStore(ctx, "run-close")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := s.Append(ctx, 1, []mapreduce.KeyValue{{Key: "CAT", Value: "0:1"}, {Key: "MAT", Value: "0:2"}}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM intermediate").Scan(&count); err != nil {
		t.Fatalf("failed to count records: %v", err)
	}
	if count != 0 {
		t.Errorf("intermediate has %d records after Close(), want 0", count)
	}
}

func TestStore_Contract(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	n := 0
	storetest.Run(t, func(t *testing.T) mapreduce.Store {
		n++
		s, err := database.NewStore(context.Background(), fmt.Sprintf("contract-%d", n))
		if err != nil {
			t.Fatalf("NewStore() error = %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
