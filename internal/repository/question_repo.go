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

type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) error
	GetByID(ctx context.Context, id string) (*model.Question, error)

	// FindByDifficultyRange returns up to limit questions inside the
	// inclusive difficulty band, excluding excludeID when non-empty.
	FindByDifficultyRange(ctx context.Context, lo, hi int, excludeID string, limit int64) ([]*model.Question, error)

	// FindAny is the fallback when the difficulty window is empty.
	FindAny(ctx context.Context, excludeID string, limit int64) ([]*model.Question, error)

	DeleteAll(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
}

type questionRepo struct {
	collection *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) error {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, question)
	return err
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) FindByDifficultyRange(ctx context.Context, lo, hi int, excludeID string, limit int64) ([]*model.Question, error) {
	filter := bson.M{
		"difficulty": bson.M{"$gte": lo, "$lte": hi},
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.find(ctx, filter, limit)
}

func (r *questionRepo) FindAny(ctx context.Context, excludeID string, limit int64) ([]*model.Question, error) {
	filter := bson.M{}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.find(ctx, filter, limit)
}

func (r *questionRepo) find(ctx context.Context, filter bson.M, limit int64) ([]*model.Question, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

func (r *questionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "difficulty", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	return err
}
