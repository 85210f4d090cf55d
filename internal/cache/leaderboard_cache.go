package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"adaptiq/internal/model"
)

// LeaderboardCache stores whole board pages per kind, with a very short TTL.
// Every applied answer may reorder the boards, so submission invalidates the
// whole prefix instead of waiting for the TTL.
type LeaderboardCache interface {
	Get(ctx context.Context, kind string) ([]model.LeaderboardEntry, error)
	Set(ctx context.Context, kind string, entries []model.LeaderboardEntry) error
	InvalidateAll(ctx context.Context) error
}

type leaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a new leaderboard snapshot cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
		ttl:    time.Minute,
	}
}

func (c *leaderboardCache) key(kind string) string {
	return fmt.Sprintf("leaderboard:%s", kind)
}

func (c *leaderboardCache) Get(ctx context.Context, kind string) ([]model.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, c.key(kind)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *leaderboardCache) Set(ctx context.Context, kind string, entries []model.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(kind), data, c.ttl).Err()
}

func (c *leaderboardCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "leaderboard:*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
