package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"adaptiq/internal/model"
)

// StateCache is a short-TTL mirror of a user's adaptive state. It is never
// the system of record: a miss or backend failure falls through to Mongo.
type StateCache interface {
	Get(ctx context.Context, userID string) (*model.UserState, error)
	Set(ctx context.Context, userID string, state *model.UserState) error
	Invalidate(ctx context.Context, userID string) error
}

type stateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateCache creates a new user-state cache
func NewStateCache(client *redis.Client) StateCache {
	return &stateCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

func (c *stateCache) key(userID string) string {
	return fmt.Sprintf("user_state:%s", userID)
}

func (c *stateCache) Get(ctx context.Context, userID string) (*model.UserState, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.UserState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *stateCache) Set(ctx context.Context, userID string, state *model.UserState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), data, c.ttl).Err()
}

func (c *stateCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}
