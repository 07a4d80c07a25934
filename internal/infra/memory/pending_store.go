package memory

import (
	"context"
	"sync"
)

// PendingStore is the in-memory answer ledger: one pending correct answer
// per user for the lifetime of the process. Entries are lost on restart,
// which is expected behavior for in-flight quizzes.
type PendingStore struct {
	mu      sync.RWMutex
	answers map[string]string
}

func NewPendingStore() *PendingStore {
	return &PendingStore{answers: make(map[string]string)}
}

// Set records the pending correct answer for a user, overwriting any
// existing entry (last write wins).
func (s *PendingStore) Set(_ context.Context, userID, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[userID] = answer
	return nil
}

// Take atomically fetches and removes the user's pending answer.
func (s *PendingStore) Take(_ context.Context, userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	answer, ok := s.answers[userID]
	if ok {
		delete(s.answers, userID)
	}
	return answer, ok, nil
}

// Len reports the number of pending quizzes; used by tests.
func (s *PendingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}
