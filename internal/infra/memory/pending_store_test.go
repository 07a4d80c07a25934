package memory

import (
	"context"
	"testing"
)

func TestPendingStoreSetAndTake(t *testing.T) {
	ctx := context.Background()
	store := NewPendingStore()

	if err := store.Set(ctx, "u1", "4"); err != nil {
		t.Fatalf("set: %v", err)
	}
	answer, ok, err := store.Take(ctx, "u1")
	if err != nil || !ok || answer != "4" {
		t.Fatalf("take: answer=%q ok=%v err=%v", answer, ok, err)
	}

	// Take consumes the entry.
	if _, ok, _ := store.Take(ctx, "u1"); ok {
		t.Fatalf("expected entry consumed")
	}
}

func TestPendingStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewPendingStore()

	_ = store.Set(ctx, "u1", "old")
	_ = store.Set(ctx, "u1", "new")

	answer, ok, _ := store.Take(ctx, "u1")
	if !ok || answer != "new" {
		t.Fatalf("expected latest answer, got %q ok=%v", answer, ok)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, len=%d", store.Len())
	}
}

func TestPendingStoreTakeMissing(t *testing.T) {
	store := NewPendingStore()
	if _, ok, err := store.Take(context.Background(), "nobody"); ok || err != nil {
		t.Fatalf("expected absent entry, ok=%v err=%v", ok, err)
	}
}
