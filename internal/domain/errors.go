package domain

import "errors"

var (
	// ErrNoQuestionAvailable is returned when the question source has
	// nothing to offer or errored; nothing is mutated.
	ErrNoQuestionAvailable = errors.New("no trivia question available")
	// ErrNoPendingQuiz is returned when a user submits an answer without a
	// quiz in flight. Covers both "never started" and "already answered".
	ErrNoPendingQuiz = errors.New("no quiz in progress")
	// ErrChannelNotAllowed is the policy rejection for interactions outside
	// the configured channel allow-list.
	ErrChannelNotAllowed = errors.New("channel not allowed")
	// ErrPersistence wraps score store failures; the attempt is lost, not queued.
	ErrPersistence = errors.New("score store failure")
)
