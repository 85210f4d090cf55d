package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"adaptiq/internal/model"
)

// QuestionPoolCache mirrors the candidate pool per difficulty bucket.
// Questions are immutable, so a long TTL is safe.
type QuestionPoolCache interface {
	Get(ctx context.Context, difficulty int) ([]*model.Question, error)
	Set(ctx context.Context, difficulty int, questions []*model.Question) error
}

type questionPoolCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuestionPoolCache creates a new question pool cache
func NewQuestionPoolCache(client *redis.Client) QuestionPoolCache {
	return &questionPoolCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *questionPoolCache) key(difficulty int) string {
	return fmt.Sprintf("question_pool:%d", difficulty)
}

func (c *questionPoolCache) Get(ctx context.Context, difficulty int) ([]*model.Question, error) {
	data, err := c.client.Get(ctx, c.key(difficulty)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var questions []*model.Question
	if err := json.Unmarshal([]byte(data), &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *questionPoolCache) Set(ctx context.Context, difficulty int, questions []*model.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(difficulty), data, c.ttl).Err()
}
