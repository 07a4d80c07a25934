package domain

import "time"

// Question is one multiple-choice trivia question as delivered by the
// question source. Text is already entity-decoded.
type Question struct {
	Prompt           string
	CorrectAnswer    string
	IncorrectAnswers []string
}

// Prompt is the player-facing form of a question: the text plus answer
// options in randomized display order.
type Prompt struct {
	Question string
	Options  []string
}

// Announcement is a fully-revealed question for scheduled broadcasts.
// CorrectIndex points into Options.
type Announcement struct {
	Question     string
	Options      []string
	CorrectIndex int
}

// Verdict summarizes one graded answer. CorrectAnswer is always set,
// whether or not the guess was right.
type Verdict struct {
	Correct       bool
	CorrectAnswer string
}

// Attempt is one graded submission, recorded permanently.
type Attempt struct {
	Correct bool      `bson:"is_correct" json:"isCorrect"`
	At      time.Time `bson:"timestamp" json:"timestamp"`
}

// UserScoreRecord is the durable per-user score document.
// Invariant: Score equals the number of correct attempts; every recorded
// attempt appends to Attempts and increments Score iff correct.
type UserScoreRecord struct {
	UserID    string    `bson:"user_id" json:"userId"`
	Score     int       `bson:"score" json:"score"`
	Attempts  []Attempt `bson:"attempts" json:"attempts"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// CorrectCount returns how many recorded attempts were correct.
func (r UserScoreRecord) CorrectCount() int {
	n := 0
	for _, a := range r.Attempts {
		if a.Correct {
			n++
		}
	}
	return n
}

// Leaderboard is an ordered top-scores snapshot.
type Leaderboard struct {
	Entries   []UserScoreRecord `json:"entries"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
