package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"trivia-quiz-bot/internal/domain"
)

// leaderboardLimit is the number of entries shown to players and pushed to feed subscribers.
const leaderboardLimit = 10

// QuestionSource supplies one trivia question on demand (e.g. Open Trivia DB).
type QuestionSource interface {
	Fetch(ctx context.Context) (domain.Question, error)
}

// PendingStore is the answer ledger: at most one pending correct answer per
// user. Take must atomically fetch and delete the entry so a grade cannot
// race a concurrent quiz start for the same user.
type PendingStore interface {
	Set(ctx context.Context, userID, answer string) error
	Take(ctx context.Context, userID string) (string, bool, error)
}

// ScoreStore abstracts durable per-user score persistence (Mongo, Postgres, in-memory).
type ScoreStore interface {
	// RecordAttempt upserts the user record, appending one attempt and
	// incrementing the score iff correct. Must be atomic per user.
	RecordAttempt(ctx context.Context, userID string, correct bool, at time.Time) error
	// TopScores returns up to limit records sorted by score descending,
	// ties broken by earliest record first, then user ID.
	TopScores(ctx context.Context, limit int) ([]domain.UserScoreRecord, error)
}

// AuditNotifier reports quiz starts to a side channel. Implementations must
// not block the workflow; failures are theirs to swallow.
type AuditNotifier interface {
	QuizStarted(userID string)
}

// EventPublisher mirrors the message-broker publisher; best-effort.
type EventPublisher interface {
	Publish(eventType string, payload any) error
}

// QuizService coordinates one question->answer cycle per invocation:
// fetching, presenting, grading, and score persistence.
type QuizService struct {
	questions QuestionSource
	pending   PendingStore
	scores    ScoreStore

	audit  AuditNotifier
	events EventPublisher
	feed   *Feed

	now func() time.Time
}

func NewQuizService(questions QuestionSource, pending PendingStore, scores ScoreStore) *QuizService {
	return &QuizService{
		questions: questions,
		pending:   pending,
		scores:    scores,
		now:       time.Now,
	}
}

// SetAuditNotifier attaches the optional quiz-start audit sink.
func (s *QuizService) SetAuditNotifier(n AuditNotifier) { s.audit = n }

// SetEventPublisher attaches the optional broker publisher.
func (s *QuizService) SetEventPublisher(p EventPublisher) { s.events = p }

// SetFeed attaches the optional live leaderboard feed.
func (s *QuizService) SetFeed(f *Feed) { s.feed = f }

// SetClock is test-only for deterministic timestamps.
func (s *QuizService) SetClock(now func() time.Time) { s.now = now }

// StartQuiz fetches a question, remembers the correct answer for the user,
// and returns the shuffled prompt. Any prior pending entry for the user is
// overwritten. Returns domain.ErrNoQuestionAvailable when the source is
// empty or erroring; the ledger is left untouched in that case.
func (s *QuizService) StartQuiz(ctx context.Context, userID string) (domain.Prompt, error) {
	question, err := s.questions.Fetch(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoQuestionAvailable) {
			return domain.Prompt{}, err
		}
		return domain.Prompt{}, fmt.Errorf("%w: %v", domain.ErrNoQuestionAvailable, err)
	}

	if err := s.pending.Set(ctx, userID, question.CorrectAnswer); err != nil {
		return domain.Prompt{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	if s.audit != nil {
		s.audit.QuizStarted(userID)
	}
	s.publish("quiz.started", map[string]any{"user_id": userID})

	return domain.Prompt{
		Question: question.Prompt,
		Options:  shuffleOptions(question),
	}, nil
}

// SubmitAnswer grades the selected option against the user's pending quiz.
// The pending entry is consumed whether the guess was right or not; the
// attempt is persisted unconditionally once grading has happened.
func (s *QuizService) SubmitAnswer(ctx context.Context, userID, selected string) (domain.Verdict, error) {
	answer, ok, err := s.pending.Take(ctx, userID)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if !ok {
		return domain.Verdict{}, domain.ErrNoPendingQuiz
	}

	correct := strings.EqualFold(selected, answer)

	if err := s.scores.RecordAttempt(ctx, userID, correct, s.now()); err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	s.publish("quiz.answer.recorded", map[string]any{"user_id": userID, "correct": correct})
	s.broadcastLeaderboard(ctx)

	return domain.Verdict{Correct: correct, CorrectAnswer: answer}, nil
}

// AnnounceQuiz builds a fully-revealed question for the scheduled
// broadcaster: no ledger entry, no grading, no score mutation.
func (s *QuizService) AnnounceQuiz(ctx context.Context) (domain.Announcement, error) {
	question, err := s.questions.Fetch(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoQuestionAvailable) {
			return domain.Announcement{}, err
		}
		return domain.Announcement{}, fmt.Errorf("%w: %v", domain.ErrNoQuestionAvailable, err)
	}

	options := shuffleOptions(question)
	correctIndex := 0
	for i, opt := range options {
		if opt == question.CorrectAnswer {
			correctIndex = i
			break
		}
	}
	return domain.Announcement{
		Question:     question.Prompt,
		Options:      options,
		CorrectIndex: correctIndex,
	}, nil
}

// Leaderboard returns the current top scorers.
func (s *QuizService) Leaderboard(ctx context.Context, limit int) ([]domain.UserScoreRecord, error) {
	records, err := s.scores.TopScores(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return records, nil
}

func (s *QuizService) broadcastLeaderboard(ctx context.Context) {
	if s.feed == nil {
		return
	}
	records, err := s.scores.TopScores(ctx, leaderboardLimit)
	if err != nil {
		log.Printf("leaderboard broadcast skipped: %v", err)
		return
	}
	s.feed.Publish(domain.Leaderboard{Entries: records, UpdatedAt: s.now()})
}

func (s *QuizService) publish(eventType string, payload map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(eventType, payload); err != nil {
		log.Printf("event publish %s failed: %v", eventType, err)
	}
}

// shuffleOptions returns correct + incorrect answers in uniform random
// order (Fisher-Yates).
func shuffleOptions(q domain.Question) []string {
	options := make([]string, 0, len(q.IncorrectAnswers)+1)
	options = append(options, q.CorrectAnswer)
	options = append(options, q.IncorrectAnswers...)
	for i := len(options) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		options[i], options[j] = options[j], options[i]
	}
	return options
}
