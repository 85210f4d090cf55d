package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"adaptiq/internal/adaptive"
	"adaptiq/internal/cache"
	"adaptiq/internal/model"
	"adaptiq/internal/repository"
)

const (
	candidatePoolSize = 20
	recentWindow      = 10
	metricsWindow     = 50
)

// MetricsResponse is the performance-metrics payload: the policy's summary
// over the recent answer window plus the current adaptive state.
type MetricsResponse struct {
	CurrentDifficulty int `json:"currentDifficulty"`
	Streak            int `json:"streak"`
	MaxStreak         int `json:"maxStreak"`
	TotalScore        int `json:"totalScore"`
	adaptive.Summary
}

// AssessmentService orchestrates question selection and answer submission.
// Concurrency safety comes from the version-checked state write and the
// unique idempotency-key index, not from any in-process lock.
type AssessmentService struct {
	stateRepo    repository.UserStateRepo
	questionRepo repository.QuestionRepo
	answerRepo   repository.AnswerLogRepo
	txn          repository.Txn
	stateCache   cache.StateCache
	poolCache    cache.QuestionPoolCache
	leaderboard  *LeaderboardService
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(
	stateRepo repository.UserStateRepo,
	questionRepo repository.QuestionRepo,
	answerRepo repository.AnswerLogRepo,
	txn repository.Txn,
	stateCache cache.StateCache,
	poolCache cache.QuestionPoolCache,
	leaderboard *LeaderboardService,
) *AssessmentService {
	return &AssessmentService{
		stateRepo:    stateRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		txn:          txn,
		stateCache:   stateCache,
		poolCache:    poolCache,
		leaderboard:  leaderboard,
	}
}

// NextQuestion serves one question inside the policy's difficulty window,
// excluding the user's previous question when possible, selected uniformly
// at random among the candidates.
func (s *AssessmentService) NextQuestion(ctx context.Context, userID, sessionID string) (*model.NextQuestionResponse, error) {
	state, err := s.resolveState(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Decay is a read-time transform; it reaches Mongo only with the next
	// applied answer.
	decayed := adaptive.ApplyStreakDecay(*state, time.Now())
	state = &decayed

	question, err := s.pickQuestion(ctx, state)
	if err != nil {
		return nil, err
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	// The served-question write must be visible to the next submission,
	// so the state cache entry cannot be allowed to outlive it.
	if err := s.stateRepo.RecordServed(ctx, userID, question.ID, sessionID); err != nil {
		return nil, fmt.Errorf("record served question: %w", err)
	}
	s.invalidateState(ctx, userID)

	return &model.NextQuestionResponse{
		QuestionID:    question.ID,
		Difficulty:    question.Difficulty,
		Prompt:        question.Prompt,
		Choices:       question.Choices,
		SessionID:     sessionID,
		StateVersion:  state.StateVersion,
		CurrentScore:  state.TotalScore,
		CurrentStreak: state.Streak,
	}, nil
}

// SubmitAnswer applies one answer with exactly-once effect. The fast-path
// idempotency lookup is an optimization only; the unique index on the
// idempotency key is the real race arbiter, and a late uniqueness conflict
// falls back to the replay path.
func (s *AssessmentService) SubmitAnswer(ctx context.Context, userID string, req *model.SubmitAnswerRequest) (*model.SubmitAnswerResponse, error) {
	if req.QuestionID == "" || req.Answer == "" || req.AnswerIdempotencyKey == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.answerRepo.GetByIdempotencyKey(ctx, req.AnswerIdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
	if existing != nil {
		return s.replayOutcome(ctx, userID, existing)
	}

	question, err := s.questionRepo.GetByID(ctx, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	state, err := s.stateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if state == nil {
		return nil, ErrStateNotFound
	}

	if req.StateVersion != nil && *req.StateVersion != state.StateVersion {
		return nil, &VersionConflictError{CurrentVersion: state.StateVersion}
	}

	correct := question.CheckAnswer(req.Answer)

	recent, err := s.recentAttempts(ctx, userID)
	if err != nil {
		return nil, err
	}

	scoreDelta := adaptive.ScoreDelta(question.Difficulty, correct, state.Streak)
	newStreak := adaptive.NewStreak(state.Streak, correct)
	newDifficulty := adaptive.AdjustDifficulty(state.CurrentDifficulty, correct, newStreak, recent)
	newTotal := max(0, state.TotalScore+scoreDelta)
	newMax := max(state.MaxStreak, newStreak)

	now := time.Now()
	entry := &model.AnswerLog{
		UserID:               userID,
		QuestionID:           question.ID,
		Difficulty:           question.Difficulty,
		Answer:               req.Answer,
		Correct:              correct,
		ScoreDelta:           scoreDelta,
		StreakAtAnswer:       state.Streak,
		AnsweredAt:           now,
		AnswerIdempotencyKey: req.AnswerIdempotencyKey,
	}

	// Log append and state update commit together. The insert runs first:
	// a duplicate idempotency key aborts the transaction before any state
	// change, and a version-filtered update matching nothing aborts it
	// before the log row can survive alone.
	var updated *model.UserState
	txnErr := s.txn.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.answerRepo.Insert(txCtx, entry); err != nil {
			return err
		}
		updated, err = s.stateRepo.ApplyAnswer(txCtx, userID, state.StateVersion, model.StateUpdate{
			CurrentDifficulty: newDifficulty,
			Streak:            newStreak,
			MaxStreak:         newMax,
			TotalScore:        newTotal,
			Correct:           correct,
			AnsweredAt:        now,
		})
		if err != nil {
			return err
		}
		if updated == nil {
			return errVersionRace
		}
		return nil
	})

	if errors.Is(txnErr, repository.ErrDuplicateKey) {
		// Lost the race to a concurrent submission with the same key.
		entry, err := s.answerRepo.GetByIdempotencyKey(ctx, req.AnswerIdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency lookup after conflict: %w", err)
		}
		if entry == nil {
			return nil, fmt.Errorf("duplicate idempotency key %q but no log entry found", req.AnswerIdempotencyKey)
		}
		return s.replayOutcome(ctx, userID, entry)
	}
	if errors.Is(txnErr, errVersionRace) {
		// A concurrent submission with a different key advanced the
		// version after our pre-check. Tell the caller to refetch.
		current, err := s.stateRepo.GetByUserID(ctx, userID)
		if err != nil || current == nil {
			return nil, fmt.Errorf("reload state after version race: %w", err)
		}
		return nil, &VersionConflictError{CurrentVersion: current.StateVersion}
	}
	if txnErr != nil {
		return nil, fmt.Errorf("apply answer: %w", txnErr)
	}

	s.invalidateState(ctx, userID)
	s.leaderboard.Invalidate(ctx)

	scoreRank, streakRank := s.ranks(ctx, updated)

	return &model.SubmitAnswerResponse{
		Correct:               correct,
		NewDifficulty:         updated.CurrentDifficulty,
		NewStreak:             updated.Streak,
		ScoreDelta:            scoreDelta,
		TotalScore:            updated.TotalScore,
		StateVersion:          updated.StateVersion,
		LeaderboardRankScore:  scoreRank,
		LeaderboardRankStreak: streakRank,
	}, nil
}

// Metrics summarizes the user's recent answer window plus current state.
func (s *AssessmentService) Metrics(ctx context.Context, userID string) (*MetricsResponse, error) {
	state, err := s.stateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if state == nil {
		return nil, ErrStateNotFound
	}

	logs, err := s.answerRepo.RecentByUser(ctx, userID, metricsWindow)
	if err != nil {
		return nil, fmt.Errorf("load answer logs: %w", err)
	}
	reverseLogs(logs)

	return &MetricsResponse{
		CurrentDifficulty: state.CurrentDifficulty,
		Streak:            state.Streak,
		MaxStreak:         state.MaxStreak,
		TotalScore:        state.TotalScore,
		Summary:           adaptive.PerformanceSummary(logs),
	}, nil
}

// errVersionRace is internal to the submit transaction.
var errVersionRace = errors.New("state version advanced concurrently")

// resolveState loads the user's state cache-first, creating it lazily with
// defaults on first contact.
func (s *AssessmentService) resolveState(ctx context.Context, userID string) (*model.UserState, error) {
	cached, err := s.stateCache.Get(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("userId", userID).Warn("state cache get failed")
	} else if cached != nil {
		return cached, nil
	}

	state, err := s.stateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if state == nil {
		state = &model.UserState{
			UserID:            userID,
			CurrentDifficulty: adaptive.DefaultDifficulty,
		}
		err := s.stateRepo.Create(ctx, state)
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Concurrent first request created it already.
			state, err = s.stateRepo.GetByUserID(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("reload state: %w", err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("create state: %w", err)
		}
	}

	if err := s.stateCache.Set(ctx, userID, state); err != nil {
		logrus.WithError(err).WithField("userId", userID).Warn("state cache set failed")
	}
	return state, nil
}

// pickQuestion draws uniformly at random from the difficulty-window pool,
// falling back to the whole bank when the window is empty.
func (s *AssessmentService) pickQuestion(ctx context.Context, state *model.UserState) (*model.Question, error) {
	lo, hi := adaptive.DifficultyWindow(state.CurrentDifficulty)

	pool, err := s.poolCache.Get(ctx, state.CurrentDifficulty)
	if err != nil {
		logrus.WithError(err).WithField("difficulty", state.CurrentDifficulty).Warn("question pool cache get failed")
		pool = nil
	}

	if len(pool) == 0 {
		pool, err = s.questionRepo.FindByDifficultyRange(ctx, lo, hi, state.LastQuestionID, candidatePoolSize)
		if err != nil {
			return nil, fmt.Errorf("load question pool: %w", err)
		}
		if len(pool) > 0 {
			if err := s.poolCache.Set(ctx, state.CurrentDifficulty, pool); err != nil {
				logrus.WithError(err).WithField("difficulty", state.CurrentDifficulty).Warn("question pool cache set failed")
			}
		}
	}

	candidates := excludeQuestion(pool, state.LastQuestionID)

	if len(candidates) == 0 {
		fallback, err := s.questionRepo.FindAny(ctx, state.LastQuestionID, candidatePoolSize)
		if err != nil {
			return nil, fmt.Errorf("load fallback pool: %w", err)
		}
		candidates = excludeQuestion(fallback, state.LastQuestionID)
	}

	if len(candidates) == 0 {
		return nil, ErrNoQuestions
	}

	return candidates[rand.Intn(len(candidates))], nil
}

// replayOutcome serves a previously applied submission without mutating
// anything. Safe to call arbitrarily many times.
func (s *AssessmentService) replayOutcome(ctx context.Context, userID string, entry *model.AnswerLog) (*model.SubmitAnswerResponse, error) {
	state, err := s.stateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if state == nil {
		return nil, ErrStateNotFound
	}

	scoreRank, streakRank := s.ranks(ctx, state)

	return &model.SubmitAnswerResponse{
		Correct:               entry.Correct,
		NewDifficulty:         state.CurrentDifficulty,
		NewStreak:             state.Streak,
		ScoreDelta:            entry.ScoreDelta,
		TotalScore:            state.TotalScore,
		StateVersion:          state.StateVersion,
		LeaderboardRankScore:  scoreRank,
		LeaderboardRankStreak: streakRank,
		Idempotent:            true,
	}, nil
}

// recentAttempts returns the last answers oldest-to-newest, as the policy's
// windowed checks expect.
func (s *AssessmentService) recentAttempts(ctx context.Context, userID string) ([]adaptive.Attempt, error) {
	logs, err := s.answerRepo.RecentByUser(ctx, userID, recentWindow)
	if err != nil {
		return nil, fmt.Errorf("load recent answers: %w", err)
	}
	reverseLogs(logs)

	attempts := make([]adaptive.Attempt, len(logs))
	for i, entry := range logs {
		attempts[i] = adaptive.Attempt{Difficulty: entry.Difficulty, Correct: entry.Correct}
	}
	return attempts, nil
}

// ranks resolves leaderboard positions, absorbing failures: a missing rank
// never fails a submission that already committed.
func (s *AssessmentService) ranks(ctx context.Context, state *model.UserState) (int64, int64) {
	scoreRank, streakRank, err := s.leaderboard.Ranks(ctx, state)
	if err != nil {
		logrus.WithError(err).WithField("userId", state.UserID).Warn("leaderboard rank lookup failed")
		return 0, 0
	}
	return scoreRank, streakRank
}

func (s *AssessmentService) invalidateState(ctx context.Context, userID string) {
	if err := s.stateCache.Invalidate(ctx, userID); err != nil {
		logrus.WithError(err).WithField("userId", userID).Warn("state cache invalidation failed")
	}
}

func excludeQuestion(questions []*model.Question, excludeID string) []*model.Question {
	if excludeID == "" {
		return questions
	}
	out := make([]*model.Question, 0, len(questions))
	for _, q := range questions {
		if q.ID != excludeID {
			out = append(out, q)
		}
	}
	return out
}

func reverseLogs(logs []*model.AnswerLog) {
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
}
