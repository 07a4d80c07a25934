package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"trivia-quiz-bot/internal/app"
	"trivia-quiz-bot/internal/domain"

	"golang.org/x/sync/singleflight"
)

// LeaderboardCache wraps a ScoreStore and caches TopScores with a TTL so
// the leaderboard command and feed do not hammer the database. Recording
// an attempt invalidates the cache.
type LeaderboardCache struct {
	inner app.ScoreStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[int]cachedScores
}

type cachedScores struct {
	records   []domain.UserScoreRecord
	expiresAt time.Time
}

func NewLeaderboardCache(inner app.ScoreStore, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		inner: inner,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[int]cachedScores),
	}
}

func (c *LeaderboardCache) RecordAttempt(ctx context.Context, userID string, correct bool, at time.Time) error {
	if err := c.inner.RecordAttempt(ctx, userID, correct, at); err != nil {
		return err
	}
	c.mu.Lock()
	c.cache = make(map[int]cachedScores)
	c.mu.Unlock()
	return nil
}

func (c *LeaderboardCache) TopScores(ctx context.Context, limit int) ([]domain.UserScoreRecord, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[limit]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.records, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(strconv.Itoa(limit), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[limit]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.records, nil
		}
		c.mu.RUnlock()

		records, err := c.inner.TopScores(ctx, limit)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[limit] = cachedScores{
			records:   records,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.UserScoreRecord), nil
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
