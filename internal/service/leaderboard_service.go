package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"adaptiq/internal/cache"
	"adaptiq/internal/model"
	"adaptiq/internal/repository"
)

// DefaultLeaderboardLimit is the top-N page size when the caller does not
// ask for another one.
const DefaultLeaderboardLimit = 50

// LeaderboardService computes 1-based ranks from the durable store and keeps
// short-lived whole-page snapshots in the cache.
type LeaderboardService struct {
	stateRepo repository.UserStateRepo
	userRepo  repository.UserRepo
	lbCache   cache.LeaderboardCache
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(
	stateRepo repository.UserStateRepo,
	userRepo repository.UserRepo,
	lbCache cache.LeaderboardCache,
) *LeaderboardService {
	return &LeaderboardService{
		stateRepo: stateRepo,
		userRepo:  userRepo,
		lbCache:   lbCache,
	}
}

// Ranks returns the user's 1-based position on the score and streak boards.
// Rank = count of users strictly ahead + 1.
func (s *LeaderboardService) Ranks(ctx context.Context, state *model.UserState) (scoreRank, streakRank int64, err error) {
	ahead, err := s.stateRepo.CountScoreAhead(ctx, state.TotalScore)
	if err != nil {
		return 0, 0, fmt.Errorf("count score rank: %w", err)
	}
	scoreRank = ahead + 1

	ahead, err = s.stateRepo.CountStreakAhead(ctx, state.MaxStreak, state.TotalScore)
	if err != nil {
		return 0, 0, fmt.Errorf("count streak rank: %w", err)
	}
	streakRank = ahead + 1

	return scoreRank, streakRank, nil
}

// Board returns the top-N page for the given kind plus the caller's own
// entry. Pages are cache-first; the caller's entry is always computed fresh
// so that a just-applied answer is reflected immediately.
func (s *LeaderboardService) Board(ctx context.Context, kind string, limit int64, userID string) (*model.LeaderboardResponse, error) {
	if kind != model.LeaderboardScore && kind != model.LeaderboardStreak {
		return nil, fmt.Errorf("unknown leaderboard kind %q", kind)
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	entries, err := s.lbCache.Get(ctx, kind)
	if err != nil {
		logrus.WithError(err).WithField("kind", kind).Warn("leaderboard cache get failed")
		entries = nil
	}

	if entries == nil {
		entries, err = s.buildPage(ctx, kind, limit)
		if err != nil {
			return nil, err
		}
		if err := s.lbCache.Set(ctx, kind, entries); err != nil {
			logrus.WithError(err).WithField("kind", kind).Warn("leaderboard cache set failed")
		}
	}

	resp := &model.LeaderboardResponse{Leaderboard: entries}

	state, err := s.stateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load caller state: %w", err)
	}
	if state != nil {
		scoreRank, streakRank, err := s.Ranks(ctx, state)
		if err != nil {
			return nil, err
		}
		rank := scoreRank
		if kind == model.LeaderboardStreak {
			rank = streakRank
		}
		names, err := s.userRepo.Usernames(ctx, []string{state.UserID})
		if err != nil {
			return nil, fmt.Errorf("resolve caller username: %w", err)
		}
		resp.CurrentUser = &model.LeaderboardEntry{
			Rank:          rank,
			UserID:        state.UserID,
			Username:      names[state.UserID],
			TotalScore:    state.TotalScore,
			CurrentStreak: state.Streak,
			MaxStreak:     state.MaxStreak,
		}
	}

	return resp, nil
}

// Invalidate drops all cached board pages. Called after every applied
// answer; failures are absorbed because the pages also expire by TTL.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if err := s.lbCache.InvalidateAll(ctx); err != nil {
		logrus.WithError(err).Warn("leaderboard cache invalidation failed")
	}
}

func (s *LeaderboardService) buildPage(ctx context.Context, kind string, limit int64) ([]model.LeaderboardEntry, error) {
	var (
		states []*model.UserState
		err    error
	)
	if kind == model.LeaderboardScore {
		states, err = s.stateRepo.TopByScore(ctx, limit)
	} else {
		states, err = s.stateRepo.TopByStreak(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("load top states: %w", err)
	}

	ids := make([]string, len(states))
	for i, st := range states {
		ids[i] = st.UserID
	}
	names, err := s.userRepo.Usernames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve usernames: %w", err)
	}

	entries := make([]model.LeaderboardEntry, len(states))
	for i, st := range states {
		entries[i] = model.LeaderboardEntry{
			Rank:          int64(i + 1),
			UserID:        st.UserID,
			Username:      names[st.UserID],
			TotalScore:    st.TotalScore,
			CurrentStreak: st.Streak,
			MaxStreak:     st.MaxStreak,
		}
	}
	return entries, nil
}
