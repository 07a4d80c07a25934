package memory

import (
	"context"
	"testing"
	"time"

	"trivia-quiz-bot/internal/app"
	"trivia-quiz-bot/internal/domain"
)

type countingStore struct {
	app.ScoreStore
	reads int
}

func (s *countingStore) TopScores(ctx context.Context, limit int) ([]domain.UserScoreRecord, error) {
	s.reads++
	return s.ScoreStore.TopScores(ctx, limit)
}

func TestLeaderboardCacheHitsWithinTTL(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{ScoreStore: NewScoreStore()}
	cache := NewLeaderboardCache(inner, time.Minute)

	if _, err := cache.TopScores(ctx, 10); err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if inner.reads != 1 {
		t.Fatalf("expected one read, got %d", inner.reads)
	}

	if _, err := cache.TopScores(ctx, 10); err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if inner.reads != 1 {
		t.Fatalf("expected cache hit, reads=%d", inner.reads)
	}

	// A different limit is a different cache entry.
	if _, err := cache.TopScores(ctx, 5); err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if inner.reads != 2 {
		t.Fatalf("expected second read for new limit, reads=%d", inner.reads)
	}
}

func TestLeaderboardCacheInvalidatedByRecordAttempt(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{ScoreStore: NewScoreStore()}
	cache := NewLeaderboardCache(inner, time.Minute)

	if _, err := cache.TopScores(ctx, 10); err != nil {
		t.Fatalf("top scores: %v", err)
	}

	if err := cache.RecordAttempt(ctx, "u1", true, time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}

	records, err := cache.TopScores(ctx, 10)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if inner.reads != 2 {
		t.Fatalf("expected fresh read after invalidation, reads=%d", inner.reads)
	}
	if len(records) != 1 || records[0].Score != 1 {
		t.Fatalf("expected the new attempt visible, got %+v", records)
	}
}
