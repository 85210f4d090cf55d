package adaptive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptiq/internal/model"
)

func TestScoreDeltaIncorrect(t *testing.T) {
	// Wrong answers cost 30% of base, independent of streak.
	for d := DifficultyMin; d <= DifficultyMax; d++ {
		for _, streak := range []int{0, 1, 5, 20} {
			assert.Equal(t, -(d * 3), ScoreDelta(d, false, streak), "difficulty %d streak %d", d, streak)
		}
	}
}

func TestScoreDeltaCorrect(t *testing.T) {
	tests := []struct {
		name       string
		difficulty int
		streak     int
		want       int
	}{
		{"first answer at difficulty 3", 3, 0, 45},
		{"difficulty 5 no streak", 5, 0, 75},
		{"difficulty 5 streak 2", 5, 2, 90},
		{"difficulty 10 streak 10", 10, 10, 300},
		{"difficulty 1 streak 1", 1, 1, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreDelta(tt.difficulty, true, tt.streak))
		})
	}
}

func TestScoreDeltaMonotonicInStreak(t *testing.T) {
	for d := DifficultyMin; d <= DifficultyMax; d++ {
		prev := ScoreDelta(d, true, 0)
		for streak := 1; streak <= 25; streak++ {
			cur := ScoreDelta(d, true, streak)
			require.GreaterOrEqual(t, cur, prev, "difficulty %d streak %d", d, streak)
			prev = cur
		}
	}
}

func TestNewStreak(t *testing.T) {
	assert.Equal(t, 1, NewStreak(0, true))
	assert.Equal(t, 7, NewStreak(6, true))
	assert.Equal(t, 0, NewStreak(6, false))
	assert.Equal(t, 0, NewStreak(0, false))
}

func correctRun(n int) []Attempt {
	out := make([]Attempt, n)
	for i := range out {
		out[i] = Attempt{Difficulty: 5, Correct: true}
	}
	return out
}

func incorrectRun(n int) []Attempt {
	out := make([]Attempt, n)
	for i := range out {
		out[i] = Attempt{Difficulty: 5}
	}
	return out
}

func TestAdjustDifficulty(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		correct   bool
		newStreak int
		recent    []Attempt
		want      int
	}{
		{"first correct answer", 3, true, 1, nil, 4},
		{"streak of three jumps two", 5, true, 4, nil, 7},
		{"correct with no streak history stays", 5, true, 0, nil, 5},
		{"incorrect drops one", 5, false, 0, nil, 4},
		{"incorrect after three misses drops two", 5, false, 0, incorrectRun(3), 3},
		{"incorrect with a recent hit drops one", 5, false, 0,
			[]Attempt{{Correct: true}, {Correct: false}, {Correct: false}}, 4},
		{"hot accuracy bonus", 5, true, 4, correctRun(5), 8},
		{"cold accuracy penalty", 5, false, 0,
			[]Attempt{{Correct: false}, {Correct: false}, {Correct: false}, {Correct: false}, {Correct: true}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustDifficulty(tt.current, tt.correct, tt.newStreak, tt.recent))
		})
	}
}

func TestAdjustDifficultyClamped(t *testing.T) {
	// Clamp holds at both ends regardless of input magnitude.
	assert.Equal(t, DifficultyMax, AdjustDifficulty(10, true, 8, correctRun(10)))
	assert.Equal(t, DifficultyMin, AdjustDifficulty(1, false, 0, incorrectRun(10)))
	assert.Equal(t, DifficultyMax, AdjustDifficulty(50, true, 1, nil))
	assert.Equal(t, DifficultyMin, AdjustDifficulty(-5, false, 0, nil))
}

func TestAdjustDifficultyOrderOfApplication(t *testing.T) {
	// Primary +2 then secondary +1 from difficulty 9 clamps once at 10,
	// not 10 then 11.
	got := AdjustDifficulty(9, true, 3, correctRun(5))
	assert.Equal(t, 10, got)
}

func TestShouldDecayStreak(t *testing.T) {
	now := time.Now()
	assert.False(t, ShouldDecayStreak(time.Time{}, now))
	assert.False(t, ShouldDecayStreak(now.Add(-23*time.Hour), now))
	assert.True(t, ShouldDecayStreak(now.Add(-24*time.Hour), now))
	assert.True(t, ShouldDecayStreak(now.Add(-25*time.Hour), now))
}

func TestApplyStreakDecay(t *testing.T) {
	now := time.Now()

	state := model.UserState{Streak: 6, CurrentDifficulty: 8, LastAnswerAt: now.Add(-25 * time.Hour)}
	decayed := ApplyStreakDecay(state, now)
	assert.Equal(t, 0, decayed.Streak)
	assert.Equal(t, 6, decayed.CurrentDifficulty)

	// Decay never reduces difficulty below 3.
	state = model.UserState{Streak: 2, CurrentDifficulty: 4, LastAnswerAt: now.Add(-48 * time.Hour)}
	assert.Equal(t, 3, ApplyStreakDecay(state, now).CurrentDifficulty)

	// Fresh activity is untouched.
	state = model.UserState{Streak: 6, CurrentDifficulty: 8, LastAnswerAt: now.Add(-time.Hour)}
	assert.Equal(t, state, ApplyStreakDecay(state, now))
}

func TestDifficultyWindow(t *testing.T) {
	tests := []struct {
		target, lo, hi int
	}{
		{1, 1, 2},
		{3, 2, 4},
		{5, 4, 6},
		{10, 9, 10},
	}
	for _, tt := range tests {
		lo, hi := DifficultyWindow(tt.target)
		assert.Equal(t, tt.lo, lo)
		assert.Equal(t, tt.hi, hi)
	}
}

func TestPerformanceSummaryEmpty(t *testing.T) {
	summary := PerformanceSummary(nil)
	assert.Zero(t, summary.TotalAnswered)
	assert.Zero(t, summary.Accuracy)
	assert.Empty(t, summary.DifficultyHistogram)
	assert.Empty(t, summary.RecentPerformance)
}

func TestPerformanceSummary(t *testing.T) {
	logs := []*model.AnswerLog{
		{Difficulty: 3, Correct: true, ScoreDelta: 45},
		{Difficulty: 3, Correct: false, ScoreDelta: -9},
		{Difficulty: 4, Correct: true, ScoreDelta: 60},
	}
	summary := PerformanceSummary(logs)

	assert.Equal(t, 3, summary.TotalAnswered)
	assert.Equal(t, 2, summary.CorrectAnswers)
	assert.InDelta(t, 66.67, summary.Accuracy, 0.001)
	assert.Equal(t, HistogramBucket{Total: 2, Correct: 1}, summary.DifficultyHistogram[3])
	assert.Equal(t, HistogramBucket{Total: 1, Correct: 1}, summary.DifficultyHistogram[4])
	require.Len(t, summary.RecentPerformance, 3)
	assert.Equal(t, 45, summary.RecentPerformance[0].ScoreDelta)
}

func TestPerformanceSummaryRecentWindow(t *testing.T) {
	logs := make([]*model.AnswerLog, 15)
	for i := range logs {
		logs[i] = &model.AnswerLog{Difficulty: 5, ScoreDelta: i}
	}
	summary := PerformanceSummary(logs)
	require.Len(t, summary.RecentPerformance, 10)
	// Most recent 10, order preserved.
	assert.Equal(t, 5, summary.RecentPerformance[0].ScoreDelta)
	assert.Equal(t, 14, summary.RecentPerformance[9].ScoreDelta)
}
