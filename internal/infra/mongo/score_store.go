package mongo

import (
	"context"
	"time"

	"trivia-quiz-bot/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ScoreStore persists per-user scores in the userScores collection, one
// document per user.
type ScoreStore struct {
	col *driver.Collection
}

func NewScoreStore(db *driver.Database) *ScoreStore {
	return &ScoreStore{col: db.Collection("userScores")}
}

// EnsureIndexes creates the indexes the store relies on: a unique key per
// user and the sorted-read index for the leaderboard.
func (s *ScoreStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []driver.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "score", Value: -1}, {Key: "created_at", Value: 1}},
		},
	})
	return err
}

// RecordAttempt upserts the user document: appends one attempt and
// increments the score iff correct. Mongo applies the update atomically
// per document, so concurrent attempts by the same user cannot lose
// increments.
func (s *ScoreStore) RecordAttempt(ctx context.Context, userID string, correct bool, at time.Time) error {
	inc := 0
	if correct {
		inc = 1
	}
	update := bson.M{
		"$inc":         bson.M{"score": inc},
		"$push":        bson.M{"attempts": domain.Attempt{Correct: correct, At: at}},
		"$setOnInsert": bson.M{"created_at": at},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	return err
}

// TopScores returns up to limit records sorted by score descending; ties go
// to the earliest record, then the lower user ID.
func (s *ScoreStore) TopScores(ctx context.Context, limit int) ([]domain.UserScoreRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "created_at", Value: 1}, {Key: "user_id", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []domain.UserScoreRecord
	for cur.Next(ctx) {
		var record domain.UserScoreRecord
		if err := cur.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, cur.Err()
}
