package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trivia-quiz-bot/internal/domain"
)

// ScoreStore is an in-memory implementation of app.ScoreStore, useful for
// tests and for running the bot without a database.
type ScoreStore struct {
	mu      sync.RWMutex
	records map[string]*domain.UserScoreRecord
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{records: make(map[string]*domain.UserScoreRecord)}
}

func (s *ScoreStore) RecordAttempt(_ context.Context, userID string, correct bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok {
		record = &domain.UserScoreRecord{UserID: userID, CreatedAt: at}
		s.records[userID] = record
	}
	record.Attempts = append(record.Attempts, domain.Attempt{Correct: correct, At: at})
	if correct {
		record.Score++
	}
	return nil
}

func (s *ScoreStore) TopScores(_ context.Context, limit int) ([]domain.UserScoreRecord, error) {
	s.mu.RLock()
	records := make([]domain.UserScoreRecord, 0, len(s.records))
	for _, record := range s.records {
		copied := *record
		copied.Attempts = append([]domain.Attempt(nil), record.Attempts...)
		records = append(records, copied)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].UserID < records[j].UserID
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Record returns a copy of one user's record; used by tests.
func (s *ScoreStore) Record(userID string) (domain.UserScoreRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[userID]
	if !ok {
		return domain.UserScoreRecord{}, false
	}
	copied := *record
	copied.Attempts = append([]domain.Attempt(nil), record.Attempts...)
	return copied, true
}
