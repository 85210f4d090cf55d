package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"adaptiq/internal/model"
	"adaptiq/internal/repository"
)

// In-memory fakes for the repository and cache interfaces. Mutexes keep the
// concurrent-submission tests honest.

type fakeStateRepo struct {
	mu     sync.Mutex
	states map[string]*model.UserState

	createCalls int
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: make(map[string]*model.UserState)}
}

func (f *fakeStateRepo) Create(_ context.Context, state *model.UserState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if _, ok := f.states[state.UserID]; ok {
		return repository.ErrDuplicateKey
	}
	if state.ID == "" {
		state.ID = "state-" + state.UserID
	}
	cp := *state
	f.states[state.UserID] = &cp
	return nil
}

func (f *fakeStateRepo) GetByUserID(_ context.Context, userID string) (*model.UserState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[userID]
	if !ok {
		return nil, nil
	}
	cp := *state
	return &cp, nil
}

func (f *fakeStateRepo) RecordServed(_ context.Context, userID, questionID, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[userID]
	if !ok {
		return nil
	}
	state.LastQuestionID = questionID
	state.SessionID = sessionID
	state.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStateRepo) ApplyAnswer(_ context.Context, userID string, expectedVersion int64, upd model.StateUpdate) (*model.UserState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[userID]
	if !ok || state.StateVersion != expectedVersion {
		return nil, nil
	}
	state.CurrentDifficulty = upd.CurrentDifficulty
	state.Streak = upd.Streak
	state.MaxStreak = upd.MaxStreak
	state.TotalScore = upd.TotalScore
	state.LastAnswerAt = upd.AnsweredAt
	state.StateVersion++
	state.TotalAnswered++
	if upd.Correct {
		state.CorrectAnswers++
	}
	state.UpdatedAt = time.Now()
	cp := *state
	return &cp, nil
}

func (f *fakeStateRepo) CountScoreAhead(_ context.Context, totalScore int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ahead int64
	for _, st := range f.states {
		if st.TotalScore > totalScore {
			ahead++
		}
	}
	return ahead, nil
}

func (f *fakeStateRepo) CountStreakAhead(_ context.Context, maxStreak, totalScore int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ahead int64
	for _, st := range f.states {
		if st.MaxStreak > maxStreak || (st.MaxStreak == maxStreak && st.TotalScore > totalScore) {
			ahead++
		}
	}
	return ahead, nil
}

func (f *fakeStateRepo) TopByScore(_ context.Context, limit int64) ([]*model.UserState, error) {
	return f.top(limit, func(a, b *model.UserState) bool {
		return a.TotalScore > b.TotalScore
	}), nil
}

func (f *fakeStateRepo) TopByStreak(_ context.Context, limit int64) ([]*model.UserState, error) {
	return f.top(limit, func(a, b *model.UserState) bool {
		if a.MaxStreak != b.MaxStreak {
			return a.MaxStreak > b.MaxStreak
		}
		return a.TotalScore > b.TotalScore
	}), nil
}

func (f *fakeStateRepo) top(limit int64, less func(a, b *model.UserState) bool) []*model.UserState {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.UserState, 0, len(f.states))
	for _, st := range f.states {
		cp := *st
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeStateRepo) EnsureIndexes(context.Context) error { return nil }

type fakeQuestionRepo struct {
	questions []*model.Question
}

func (f *fakeQuestionRepo) Create(_ context.Context, q *model.Question) error {
	f.questions = append(f.questions, q)
	return nil
}

func (f *fakeQuestionRepo) GetByID(_ context.Context, id string) (*model.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}

func (f *fakeQuestionRepo) FindByDifficultyRange(_ context.Context, lo, hi int, excludeID string, limit int64) ([]*model.Question, error) {
	var out []*model.Question
	for _, q := range f.questions {
		if q.Difficulty >= lo && q.Difficulty <= hi && q.ID != excludeID {
			out = append(out, q)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) FindAny(_ context.Context, excludeID string, limit int64) ([]*model.Question, error) {
	var out []*model.Question
	for _, q := range f.questions {
		if q.ID != excludeID {
			out = append(out, q)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) DeleteAll(context.Context) error {
	f.questions = nil
	return nil
}

func (f *fakeQuestionRepo) EnsureIndexes(context.Context) error { return nil }

type fakeAnswerRepo struct {
	mu      sync.Mutex
	entries []*model.AnswerLog
	byKey   map[string]*model.AnswerLog
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{byKey: make(map[string]*model.AnswerLog)}
}

func (f *fakeAnswerRepo) Insert(_ context.Context, entry *model.AnswerLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byKey[entry.AnswerIdempotencyKey]; ok {
		return repository.ErrDuplicateKey
	}
	cp := *entry
	f.entries = append(f.entries, &cp)
	f.byKey[entry.AnswerIdempotencyKey] = &cp
	return nil
}

func (f *fakeAnswerRepo) GetByIdempotencyKey(_ context.Context, key string) (*model.AnswerLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.byKey[key]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (f *fakeAnswerRepo) RecentByUser(_ context.Context, userID string, limit int64) ([]*model.AnswerLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Insertion order is chronological; return newest first.
	var out []*model.AnswerLog
	for i := len(f.entries) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if f.entries[i].UserID == userID {
			cp := *f.entries[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAnswerRepo) EnsureIndexes(context.Context) error { return nil }

func (f *fakeAnswerRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicateKey
		}
	}
	if user.ID == "" {
		user.ID = "user-" + user.Username
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Usernames(_ context.Context, ids []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make(map[string]string)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			names[id] = u.Username
		}
	}
	return names, nil
}

func (f *fakeUserRepo) EnsureIndexes(context.Context) error { return nil }

// fakeTxn runs the function directly; the fakes' own duplicate-key and
// version-match checks stand in for the transaction semantics.
type fakeTxn struct{}

func (fakeTxn) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memLeaderboardCache is a remembering leaderboard cache for cache-hit tests.
type memLeaderboardCache struct {
	mu          sync.Mutex
	pages       map[string][]model.LeaderboardEntry
	invalidates int
}

func newMemLeaderboardCache() *memLeaderboardCache {
	return &memLeaderboardCache{pages: make(map[string][]model.LeaderboardEntry)}
}

func (c *memLeaderboardCache) Get(_ context.Context, kind string) ([]model.LeaderboardEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages[kind], nil
}

func (c *memLeaderboardCache) Set(_ context.Context, kind string, entries []model.LeaderboardEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[kind] = entries
	return nil
}

func (c *memLeaderboardCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[string][]model.LeaderboardEntry)
	c.invalidates++
	return nil
}

// Failing caches prove that a broken cache backend is absorbed.

var errCacheDown = errors.New("cache backend down")

type failingStateCache struct{}

func (failingStateCache) Get(context.Context, string) (*model.UserState, error) {
	return nil, errCacheDown
}
func (failingStateCache) Set(context.Context, string, *model.UserState) error { return errCacheDown }
func (failingStateCache) Invalidate(context.Context, string) error            { return errCacheDown }

type failingPoolCache struct{}

func (failingPoolCache) Get(context.Context, int) ([]*model.Question, error) {
	return nil, errCacheDown
}
func (failingPoolCache) Set(context.Context, int, []*model.Question) error { return errCacheDown }

type failingLeaderboardCache struct{}

func (failingLeaderboardCache) Get(context.Context, string) ([]model.LeaderboardEntry, error) {
	return nil, errCacheDown
}
func (failingLeaderboardCache) Set(context.Context, string, []model.LeaderboardEntry) error {
	return errCacheDown
}
func (failingLeaderboardCache) InvalidateAll(context.Context) error { return errCacheDown }
