package memory

import (
	"context"
	"testing"
	"time"
)

func TestScoreStoreUpsertSemantics(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	now := time.Now()

	if err := store.RecordAttempt(ctx, "u1", true, now); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordAttempt(ctx, "u1", false, now.Add(time.Second)); err != nil {
		t.Fatalf("record: %v", err)
	}

	record, ok := store.Record("u1")
	if !ok {
		t.Fatalf("expected record created on first attempt")
	}
	if record.Score != 1 {
		t.Fatalf("score must count only correct attempts, got %d", record.Score)
	}
	if len(record.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(record.Attempts))
	}
	if record.Score != record.CorrectCount() {
		t.Fatalf("invariant broken: score=%d correct=%d", record.Score, record.CorrectCount())
	}
	if !record.CreatedAt.Equal(now) {
		t.Fatalf("created_at must be the first attempt time")
	}
}

func TestScoreStoreTopScoresOrderAndTieBreak(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	base := time.Now()

	// b: 2 points, a: 1 point (earlier), c: 1 point (later).
	_ = store.RecordAttempt(ctx, "a", true, base)
	_ = store.RecordAttempt(ctx, "b", true, base.Add(time.Second))
	_ = store.RecordAttempt(ctx, "b", true, base.Add(2*time.Second))
	_ = store.RecordAttempt(ctx, "c", true, base.Add(3*time.Second))

	records, err := store.TopScores(ctx, 10)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.UserID
	}
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestScoreStoreTopScoresLimit(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	for _, u := range []string{"a", "b", "c", "d"} {
		_ = store.RecordAttempt(ctx, u, true, time.Now())
	}

	records, err := store.TopScores(ctx, 2)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}
