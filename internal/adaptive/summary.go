package adaptive

import (
	"math"
	"time"

	"adaptiq/internal/model"
)

// HistogramBucket counts attempts at one difficulty level.
type HistogramBucket struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// RecentAttempt is one of the latest answers, for trend display.
type RecentAttempt struct {
	Difficulty int       `json:"difficulty"`
	Correct    bool      `json:"correct"`
	ScoreDelta int       `json:"scoreDelta"`
	AnsweredAt time.Time `json:"answeredAt"`
}

// Summary aggregates a window of answer logs.
type Summary struct {
	TotalAnswered       int                     `json:"totalAnswered"`
	CorrectAnswers      int                     `json:"correctAnswers"`
	Accuracy            float64                 `json:"accuracy"`
	DifficultyHistogram map[int]HistogramBucket `json:"difficultyHistogram"`
	RecentPerformance   []RecentAttempt         `json:"recentPerformance"`
}

// PerformanceSummary aggregates the given answer logs, ordered
// oldest-to-newest. Accuracy is a percentage rounded to two decimals;
// RecentPerformance holds the most recent 10 entries.
func PerformanceSummary(logs []*model.AnswerLog) Summary {
	summary := Summary{
		DifficultyHistogram: make(map[int]HistogramBucket),
		RecentPerformance:   []RecentAttempt{},
	}
	if len(logs) == 0 {
		return summary
	}

	summary.TotalAnswered = len(logs)
	for _, entry := range logs {
		bucket := summary.DifficultyHistogram[entry.Difficulty]
		bucket.Total++
		if entry.Correct {
			bucket.Correct++
			summary.CorrectAnswers++
		}
		summary.DifficultyHistogram[entry.Difficulty] = bucket
	}

	accuracy := float64(summary.CorrectAnswers) / float64(summary.TotalAnswered) * 100
	summary.Accuracy = math.Round(accuracy*100) / 100

	recent := logs
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	for _, entry := range recent {
		summary.RecentPerformance = append(summary.RecentPerformance, RecentAttempt{
			Difficulty: entry.Difficulty,
			Correct:    entry.Correct,
			ScoreDelta: entry.ScoreDelta,
			AnsweredAt: entry.AnsweredAt,
		})
	}
	return summary
}
