package app

import (
	"sync"

	"trivia-quiz-bot/internal/domain"
)

// Feed fans leaderboard snapshots out to live subscribers (the websocket
// transport). Sends never block: a slow subscriber has its stale snapshot
// dropped in favor of the newest one.
type Feed struct {
	mu   sync.Mutex
	subs map[chan domain.Leaderboard]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[chan domain.Leaderboard]struct{})}
}

// Subscribe returns a channel of leaderboard updates. The caller must
// invoke the returned cancel function to avoid leaks.
func (f *Feed) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber.
func (f *Feed) Publish(lb domain.Leaderboard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- lb:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
