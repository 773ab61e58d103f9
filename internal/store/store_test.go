package store

import (
	"context"
	"path/filepath"
	"testing"
)

// openTestDB opens a migrated sqlite store in a temp directory.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "calzen.db")
	db, err := Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDB_GetMissing(t *testing.T) {
	db := openTestDB(t)
	_, ok, err := db.Get(context.Background(), "settings")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected missing blob")
	}
}

func TestDB_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := db.Put(ctx, "settings", []byte(`{"streak":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := db.Put(ctx, "settings", []byte(`{"streak":2}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	b, ok, err := db.Get(ctx, "settings")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(b) != `{"streak":2}` {
		t.Errorf("expected latest value, got %s", b)
	}
}

func TestDB_PutManyAndDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := db.PutMany(ctx, map[string][]byte{
		"settings":  []byte(`{}`),
		"history":   []byte(`{"2026-10-17":{"foods":[],"water":0.5}}`),
		"favorites": []byte(`[]`),
	})
	if err != nil {
		t.Fatalf("put many: %v", err)
	}

	for _, name := range []string{"settings", "history", "favorites"} {
		if _, ok, err := db.Get(ctx, name); err != nil || !ok {
			t.Errorf("%s: ok=%v err=%v", name, ok, err)
		}
	}

	if err := db.Delete(ctx, "history"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := db.Get(ctx, "history"); ok {
		t.Error("expected history deleted")
	}
	if err := db.Delete(ctx, "history"); err != nil {
		t.Errorf("deleting a missing blob should not fail: %v", err)
	}
}

func TestDB_MigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	v, err := db.Version()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != 1 {
		t.Errorf("expected schema version 1, got %d", v)
	}
}

func TestDB_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "calzen.db")

	db, err := Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Put(ctx, "favorites", []byte(`[{"name":"Egg"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	db.Close()

	db, err = Open("sqlite", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	b, ok, err := db.Get(ctx, "favorites")
	if err != nil || !ok || string(b) != `[{"name":"Egg"}]` {
		t.Errorf("expected favorites after reopen, got %s ok=%v err=%v", b, ok, err)
	}
}

func TestMemory_CopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	in := []byte(`abc`)
	if err := m.Put(ctx, "x", in); err != nil {
		t.Fatalf("put: %v", err)
	}
	in[0] = 'z'

	out, ok, _ := m.Get(ctx, "x")
	if !ok || string(out) != "abc" {
		t.Fatalf("expected stored copy abc, got %s", out)
	}
	out[0] = 'q'
	again, _, _ := m.Get(ctx, "x")
	if string(again) != "abc" {
		t.Errorf("caller mutation leaked into store: %s", again)
	}

	if err := m.Delete(ctx, "x"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "x"); ok {
		t.Error("expected deleted")
	}
}
