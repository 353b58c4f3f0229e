package storage

import (
	"io"
	"testing"
	"time"

	"prox/internal/errors"
	"prox/internal/logging"
	"prox/internal/snapshot"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	logger := logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
	db, err := Open(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	db := testDB(t)

	version, err := db.getSchemaVersion()
	if err != nil {
		t.Fatalf("getSchemaVersion failed: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := testDB(t)
	store, err := NewSnapshotStore(db)
	if err != nil {
		t.Fatalf("NewSnapshotStore failed: %v", err)
	}

	snap := snapshot.New([]string{"util/b.go", "util/context/a.go", "d.go"}, snapshot.SourceScan)
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.ByID(snap.ID)
	if err != nil {
		t.Fatalf("ByID failed: %v", err)
	}
	if loaded.Fingerprint != snap.Fingerprint {
		t.Errorf("fingerprint = %s, want %s", loaded.Fingerprint, snap.Fingerprint)
	}
	if loaded.Source != snapshot.SourceScan {
		t.Errorf("source = %s, want %s", loaded.Source, snapshot.SourceScan)
	}
	if len(loaded.Files) != 3 || loaded.Files[0] != "d.go" {
		t.Errorf("files = %v, want sorted 3 entries", loaded.Files)
	}
}

func TestSnapshotLatest(t *testing.T) {
	db := testDB(t)
	store, err := NewSnapshotStore(db)
	if err != nil {
		t.Fatalf("NewSnapshotStore failed: %v", err)
	}

	older := snapshot.New([]string{"a.go"}, snapshot.SourceScan)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := snapshot.New([]string{"a.go", "b.go"}, snapshot.SourceScip)

	if err := store.Save(older); err != nil {
		t.Fatalf("Save older: %v", err)
	}
	if err := store.Save(newer); err != nil {
		t.Fatalf("Save newer: %v", err)
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ID != newer.ID {
		t.Errorf("Latest = %s, want %s", latest.ID, newer.ID)
	}

	infos, err := store.List(10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List returned %d rows, want 2", len(infos))
	}
	if infos[0].ID != newer.ID || infos[0].FileCount != 2 {
		t.Errorf("List[0] = %+v, want newest snapshot with 2 files", infos[0])
	}
}

func TestSnapshotMissing(t *testing.T) {
	db := testDB(t)
	store, err := NewSnapshotStore(db)
	if err != nil {
		t.Fatalf("NewSnapshotStore failed: %v", err)
	}

	_, err = store.Latest()
	if err == nil {
		t.Fatal("expected error for empty store")
	}
	proxErr, ok := err.(*errors.ProxError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.ProxError", err)
	}
	if proxErr.Code != errors.SnapshotMissing {
		t.Errorf("code = %s, want %s", proxErr.Code, errors.SnapshotMissing)
	}
}

func TestSnapshotPrune(t *testing.T) {
	db := testDB(t)
	store, err := NewSnapshotStore(db)
	if err != nil {
		t.Fatalf("NewSnapshotStore failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		snap := snapshot.New([]string{"a.go"}, snapshot.SourceScan)
		snap.CreatedAt = time.Now().UTC().Add(time.Duration(i-5) * time.Hour)
		if err := store.Save(snap); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	removed, err := store.Prune(2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	infos, err := store.List(10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Errorf("remaining = %d, want 2", len(infos))
	}
}

func TestQueryCacheRoundTrip(t *testing.T) {
	db := testDB(t)
	cache, err := NewQueryCache(db, 16)
	if err != nil {
		t.Fatalf("NewQueryCache failed: %v", err)
	}

	if _, found, err := cache.Get("neighbors:a", "fp1"); err != nil || found {
		t.Fatalf("Get on empty cache = found=%v err=%v", found, err)
	}

	if err := cache.Set("neighbors:a", "fp1", `{"x":1}`, 60); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, found, err := cache.Get("neighbors:a", "fp1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || value != `{"x":1}` {
		t.Errorf("Get = (%q, %v), want cached value", value, found)
	}

	// Different fingerprint misses
	if _, found, _ := cache.Get("neighbors:a", "fp2"); found {
		t.Error("fingerprint mismatch must miss")
	}
}

func TestQueryCacheExpiry(t *testing.T) {
	db := testDB(t)
	cache, err := NewQueryCache(db, 16)
	if err != nil {
		t.Fatalf("NewQueryCache failed: %v", err)
	}

	if err := cache.Set("k", "fp", "v", -5); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found, err := cache.Get("k", "fp"); err != nil || found {
		t.Errorf("expired entry must miss, found=%v err=%v", found, err)
	}
}

func TestQueryCacheSurvivesLruMiss(t *testing.T) {
	db := testDB(t)
	cache, err := NewQueryCache(db, 16)
	if err != nil {
		t.Fatalf("NewQueryCache failed: %v", err)
	}
	if err := cache.Set("k", "fp", "v", 60); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh cache over the same database reads through to SQLite
	cache2, err := NewQueryCache(db, 16)
	if err != nil {
		t.Fatalf("NewQueryCache failed: %v", err)
	}
	value, found, err := cache2.Get("k", "fp")
	if err != nil || !found || value != "v" {
		t.Errorf("read-through = (%q, %v, %v), want (v, true, nil)", value, found, err)
	}
}

func TestQueryCacheInvalidate(t *testing.T) {
	db := testDB(t)
	cache, err := NewQueryCache(db, 16)
	if err != nil {
		t.Fatalf("NewQueryCache failed: %v", err)
	}

	_ = cache.Set("k1", "old", "v1", 60)
	_ = cache.Set("k2", "current", "v2", 60)

	removed, err := cache.Invalidate("current")
	if err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if _, found, _ := cache.Get("k1", "old"); found {
		t.Error("stale entry must be gone")
	}
	if _, found, _ := cache.Get("k2", "current"); !found {
		t.Error("current entry must survive")
	}
}
