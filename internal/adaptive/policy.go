// Package adaptive holds the difficulty-adjustment policy: pure functions
// over primitive state, no I/O. All persistence and caching decisions belong
// to the callers.
package adaptive

import (
	"math"
	"time"

	"adaptiq/internal/model"
)

const (
	DifficultyMin     = 1
	DifficultyMax     = 10
	DefaultDifficulty = 3

	// StreakDecayAge is the idle period after which the streak resets and
	// difficulty drops.
	StreakDecayAge = 24 * time.Hour

	// decayDifficultyFloor is the lowest difficulty decay can reduce to.
	decayDifficultyFloor = 3
)

// Attempt is one historical answer, as the policy sees it.
type Attempt struct {
	Difficulty int
	Correct    bool
}

// ScoreDelta computes the score change for an answer. streak is the streak
// value before this answer. Incorrect answers cost a fixed fraction of the
// base regardless of streak; the caller floors the running total at zero.
func ScoreDelta(difficulty int, correct bool, streak int) int {
	base := float64(difficulty * 10)

	if !correct {
		return -int(math.Floor(base * 0.3))
	}

	streakMultiplier := 1 + float64(streak)*0.1
	difficultyBonus := float64(difficulty * 5)

	return int(math.Floor((base + difficultyBonus) * streakMultiplier))
}

// NewStreak advances or resets the consecutive-correct counter.
func NewStreak(streak int, correct bool) int {
	if correct {
		return streak + 1
	}
	return 0
}

// AdjustDifficulty computes the next difficulty level. newStreak is the
// post-answer streak and recent is the user's attempt history,
// oldest-to-newest. Primary adjustment applies first, then the accuracy
// correction over the last 5 attempts, then a single clamp.
func AdjustDifficulty(current int, correct bool, newStreak int, recent []Attempt) int {
	next := current

	if correct {
		if newStreak >= 3 {
			next += 2
		} else if newStreak >= 1 {
			next++
		}
	} else {
		if newStreak == 0 && len(recent) >= 3 {
			recentCorrect := 0
			for _, a := range recent[len(recent)-3:] {
				if a.Correct {
					recentCorrect++
				}
			}
			if recentCorrect == 0 {
				next -= 2
			} else {
				next--
			}
		} else {
			next--
		}
	}

	if len(recent) >= 5 {
		last5 := recent[len(recent)-5:]
		correctCount := 0
		for _, a := range last5 {
			if a.Correct {
				correctCount++
			}
		}
		accuracy := float64(correctCount) / float64(len(last5))

		if accuracy >= 0.8 && correct {
			next++
		} else if accuracy <= 0.4 && !correct {
			next--
		}
	}

	return clamp(next)
}

// ShouldDecayStreak reports whether the idle period since the last answer
// has passed the decay threshold. A zero lastAnswerAt (never answered)
// never decays.
func ShouldDecayStreak(lastAnswerAt, now time.Time) bool {
	if lastAnswerAt.IsZero() {
		return false
	}
	return now.Sub(lastAnswerAt) >= StreakDecayAge
}

// ApplyStreakDecay returns the state with decay applied if it is due. This
// is a read-time transform; the durable write happens with the next applied
// answer.
func ApplyStreakDecay(state model.UserState, now time.Time) model.UserState {
	if !ShouldDecayStreak(state.LastAnswerAt, now) {
		return state
	}
	state.Streak = 0
	state.CurrentDifficulty = max(decayDifficultyFloor, state.CurrentDifficulty-2)
	return state
}

// DifficultyWindow is the inclusive band of difficulty levels eligible for
// the next question.
func DifficultyWindow(target int) (lo, hi int) {
	return max(DifficultyMin, target-1), min(DifficultyMax, target+1)
}

func clamp(d int) int {
	return max(DifficultyMin, min(DifficultyMax, d))
}
