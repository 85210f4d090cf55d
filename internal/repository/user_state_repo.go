package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"adaptiq/internal/model"
)

type UserStateRepo interface {
	Create(ctx context.Context, state *model.UserState) error
	GetByUserID(ctx context.Context, userID string) (*model.UserState, error)

	// RecordServed stores the served question id and session id on the
	// user's state without touching the version token.
	RecordServed(ctx context.Context, userID, questionID, sessionID string) error

	// ApplyAnswer performs the version-checked state mutation for one
	// accepted answer: the update matches only when the stored
	// stateVersion equals expectedVersion, and increments it along with
	// the lifetime counters. Returns nil when no document matched (the
	// version moved underneath the caller).
	ApplyAnswer(ctx context.Context, userID string, expectedVersion int64, upd model.StateUpdate) (*model.UserState, error)

	CountScoreAhead(ctx context.Context, totalScore int) (int64, error)
	CountStreakAhead(ctx context.Context, maxStreak, totalScore int) (int64, error)
	TopByScore(ctx context.Context, limit int64) ([]*model.UserState, error)
	TopByStreak(ctx context.Context, limit int64) ([]*model.UserState, error)

	EnsureIndexes(ctx context.Context) error
}

type userStateRepo struct {
	collection *mongo.Collection
}

func NewUserStateRepo(db *mongo.Database) UserStateRepo {
	return &userStateRepo{
		collection: db.Collection("user_states"),
	}
}

func (r *userStateRepo) Create(ctx context.Context, state *model.UserState) error {
	if state.ID == "" {
		state.ID = primitive.NewObjectID().Hex()
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, state)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *userStateRepo) GetByUserID(ctx context.Context, userID string) (*model.UserState, error) {
	var state model.UserState
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&state)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *userStateRepo) RecordServed(ctx context.Context, userID, questionID, sessionID string) error {
	update := bson.M{"$set": bson.M{
		"lastQuestionId": questionID,
		"sessionId":      sessionID,
		"updatedAt":      time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	return err
}

func (r *userStateRepo) ApplyAnswer(ctx context.Context, userID string, expectedVersion int64, upd model.StateUpdate) (*model.UserState, error) {
	correctInc := 0
	if upd.Correct {
		correctInc = 1
	}

	filter := bson.M{"userId": userID, "stateVersion": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"currentDifficulty": upd.CurrentDifficulty,
			"streak":            upd.Streak,
			"maxStreak":         upd.MaxStreak,
			"totalScore":        upd.TotalScore,
			"lastAnswerAt":      upd.AnsweredAt,
			"updatedAt":         time.Now(),
		},
		"$inc": bson.M{
			"stateVersion":   1,
			"totalAnswered":  1,
			"correctAnswers": correctInc,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var state model.UserState
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&state)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *userStateRepo) CountScoreAhead(ctx context.Context, totalScore int) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"totalScore": bson.M{"$gt": totalScore}})
}

func (r *userStateRepo) CountStreakAhead(ctx context.Context, maxStreak, totalScore int) (int64, error) {
	// Strictly ahead on maxStreak, or tied with a higher score.
	filter := bson.M{"$or": bson.A{
		bson.M{"maxStreak": bson.M{"$gt": maxStreak}},
		bson.M{"maxStreak": maxStreak, "totalScore": bson.M{"$gt": totalScore}},
	}}
	return r.collection.CountDocuments(ctx, filter)
}

func (r *userStateRepo) TopByScore(ctx context.Context, limit int64) ([]*model.UserState, error) {
	opts := options.Find().SetSort(bson.D{{Key: "totalScore", Value: -1}}).SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

func (r *userStateRepo) TopByStreak(ctx context.Context, limit int64) ([]*model.UserState, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "maxStreak", Value: -1}, {Key: "totalScore", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

func (r *userStateRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.UserState, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var states []*model.UserState
	if err = cursor.All(ctx, &states); err != nil {
		return nil, err
	}
	return states, nil
}

func (r *userStateRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "totalScore", Value: -1}}},
		{Keys: bson.D{{Key: "maxStreak", Value: -1}, {Key: "totalScore", Value: -1}}},
	})
	return err
}
