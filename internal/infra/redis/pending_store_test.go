package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStore(t *testing.T) (*PendingStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewPendingStore(client, time.Minute), mr
}

func TestPendingStoreSetsKeyWithTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	if err := store.Set(ctx, "u1", "4"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("quiz:pending:u1") {
		t.Fatalf("expected redis key to be set")
	}
	if mr.TTL("quiz:pending:u1") != time.Minute {
		t.Fatalf("expected ttl, got %v", mr.TTL("quiz:pending:u1"))
	}
}

func TestPendingStoreTakeConsumesKey(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	_ = store.Set(ctx, "u1", "4")
	answer, ok, err := store.Take(ctx, "u1")
	if err != nil || !ok || answer != "4" {
		t.Fatalf("take: answer=%q ok=%v err=%v", answer, ok, err)
	}
	if mr.Exists("quiz:pending:u1") {
		t.Fatalf("expected key removed after take")
	}

	if _, ok, err := store.Take(ctx, "u1"); ok || err != nil {
		t.Fatalf("expected absent entry, ok=%v err=%v", ok, err)
	}
}

func TestPendingStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_ = store.Set(ctx, "u1", "old")
	_ = store.Set(ctx, "u1", "new")

	answer, ok, _ := store.Take(ctx, "u1")
	if !ok || answer != "new" {
		t.Fatalf("expected latest answer, got %q ok=%v", answer, ok)
	}
}
