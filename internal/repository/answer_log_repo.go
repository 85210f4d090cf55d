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

type AnswerLogRepo interface {
	// Insert appends one log row. Returns ErrDuplicateKey when the
	// idempotency key was already applied — the unique index is the race
	// arbiter for concurrent duplicate submissions.
	Insert(ctx context.Context, entry *model.AnswerLog) error
	GetByIdempotencyKey(ctx context.Context, key string) (*model.AnswerLog, error)

	// RecentByUser returns up to limit entries, newest first.
	RecentByUser(ctx context.Context, userID string, limit int64) ([]*model.AnswerLog, error)

	EnsureIndexes(ctx context.Context) error
}

type answerLogRepo struct {
	collection *mongo.Collection
}

func NewAnswerLogRepo(db *mongo.Database) AnswerLogRepo {
	return &answerLogRepo{
		collection: db.Collection("answer_logs"),
	}
}

func (r *answerLogRepo) Insert(ctx context.Context, entry *model.AnswerLog) error {
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	if entry.AnsweredAt.IsZero() {
		entry.AnsweredAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *answerLogRepo) GetByIdempotencyKey(ctx context.Context, key string) (*model.AnswerLog, error) {
	var entry model.AnswerLog
	err := r.collection.FindOne(ctx, bson.M{"answerIdempotencyKey": key}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *answerLogRepo) RecentByUser(ctx context.Context, userID string, limit int64) ([]*model.AnswerLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "answeredAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.AnswerLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *answerLogRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "answerIdempotencyKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "answeredAt", Value: -1}}},
	})
	return err
}
