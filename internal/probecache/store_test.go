package probecache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"corpusmix/internal/media/probe"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache", "durations.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLookupMissThenHit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	key := probe.CacheKey{Path: "/data/a/wavs/1.wav", Size: 4044, ModTime: time.Unix(1700000000, 42).UTC()}

	if _, hit, err := store.Lookup(ctx, key); err != nil || hit {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
	if err := store.Save(ctx, key, 2.022); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	seconds, hit, err := store.Lookup(ctx, key)
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if seconds != 2.022 {
		t.Fatalf("seconds = %v, want 2.022", seconds)
	}
}

func TestSaveReplacesStaleVersion(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	old := probe.CacheKey{Path: "/data/a/wavs/1.wav", Size: 10, ModTime: time.Unix(1, 0)}
	fresh := probe.CacheKey{Path: old.Path, Size: 20, ModTime: time.Unix(2, 0)}

	if err := store.Save(ctx, old, 1); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, fresh, 2); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := store.Lookup(ctx, old); hit {
		t.Fatal("expected stale key to be gone")
	}
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
}

func TestReopenResetsMismatchedSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "durations.db")
	store, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, probe.CacheKey{Path: "/x.wav", Size: 1, ModTime: time.Unix(1, 0)}, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.ExecContext(ctx, "UPDATE schema_version SET version = 999"); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	n, err := reopened.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected cache to be reset, got %d rows", n)
	}
}

func TestLookupSeparatesBackends(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	wavKey := probe.CacheKey{Backend: "wav", Path: "/data/a/wavs/1.wav", Size: 4044, ModTime: time.Unix(5, 0)}
	ffKey := wavKey
	ffKey.Backend = "ffprobe"

	if err := store.Save(ctx, wavKey, 2.022); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := store.Lookup(ctx, ffKey); err != nil || hit {
		t.Fatalf("expected miss for other backend, got hit=%v err=%v", hit, err)
	}
	if err := store.Save(ctx, ffKey, 2.0); err != nil {
		t.Fatal(err)
	}
	seconds, hit, err := store.Lookup(ctx, wavKey)
	if err != nil || !hit || seconds != 2.022 {
		t.Fatalf("wav entry = %v hit=%v err=%v, want 2.022", seconds, hit, err)
	}
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
}
