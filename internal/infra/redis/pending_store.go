package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// PendingStore is a Redis-backed answer ledger. One key per user holds the
// pending correct answer; GETDEL makes the grade-and-clear step atomic per
// user even across multiple bot instances. Entries expire after the TTL so
// abandoned quizzes do not accumulate.
type PendingStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPendingStore(client *redis.Client, ttl time.Duration) *PendingStore {
	return &PendingStore{client: client, ttl: ttl}
}

func (s *PendingStore) Set(ctx context.Context, userID, answer string) error {
	return s.client.Set(ctx, s.key(userID), answer, s.ttl).Err()
}

func (s *PendingStore) Take(ctx context.Context, userID string) (string, bool, error) {
	answer, err := s.client.GetDel(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return answer, true, nil
}

func (s *PendingStore) key(userID string) string {
	return "quiz:pending:" + userID
}
