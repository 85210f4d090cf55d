package cache

import (
	"context"

	"adaptiq/internal/model"
)

// No-op cache implementations. Caching is an optimization, never a
// correctness dependency, so a cache that remembers nothing is a legal
// substitute wherever Redis is unavailable.

type noopStateCache struct{}

// NewNoopStateCache returns a state cache that never hits.
func NewNoopStateCache() StateCache { return noopStateCache{} }

func (noopStateCache) Get(context.Context, string) (*model.UserState, error)  { return nil, nil }
func (noopStateCache) Set(context.Context, string, *model.UserState) error    { return nil }
func (noopStateCache) Invalidate(context.Context, string) error               { return nil }

type noopQuestionPoolCache struct{}

// NewNoopQuestionPoolCache returns a question pool cache that never hits.
func NewNoopQuestionPoolCache() QuestionPoolCache { return noopQuestionPoolCache{} }

func (noopQuestionPoolCache) Get(context.Context, int) ([]*model.Question, error) { return nil, nil }
func (noopQuestionPoolCache) Set(context.Context, int, []*model.Question) error   { return nil }

type noopLeaderboardCache struct{}

// NewNoopLeaderboardCache returns a leaderboard cache that never hits.
func NewNoopLeaderboardCache() LeaderboardCache { return noopLeaderboardCache{} }

func (noopLeaderboardCache) Get(context.Context, string) ([]model.LeaderboardEntry, error) {
	return nil, nil
}
func (noopLeaderboardCache) Set(context.Context, string, []model.LeaderboardEntry) error { return nil }
func (noopLeaderboardCache) InvalidateAll(context.Context) error                         { return nil }
