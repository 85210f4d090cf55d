package model

import "time"

// UserState is the per-user adaptive state. Exactly one exists per user; it
// is created lazily with defaults on the first question request.
type UserState struct {
	ID                string    `json:"id" bson:"_id,omitempty"`
	UserID            string    `json:"userId" bson:"userId"`
	CurrentDifficulty int       `json:"currentDifficulty" bson:"currentDifficulty"`
	Streak            int       `json:"streak" bson:"streak"`
	MaxStreak         int       `json:"maxStreak" bson:"maxStreak"`
	TotalScore        int       `json:"totalScore" bson:"totalScore"`
	LastQuestionID    string    `json:"lastQuestionId,omitempty" bson:"lastQuestionId,omitempty"`
	LastAnswerAt      time.Time `json:"lastAnswerAt,omitempty" bson:"lastAnswerAt,omitempty"`
	SessionID         string    `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	StateVersion      int64     `json:"stateVersion" bson:"stateVersion"`
	TotalAnswered     int       `json:"totalAnswered" bson:"totalAnswered"`
	CorrectAnswers    int       `json:"correctAnswers" bson:"correctAnswers"`
	UpdatedAt         time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Accuracy returns the lifetime accuracy percentage.
func (s *UserState) Accuracy() float64 {
	if s.TotalAnswered == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalAnswered) * 100
}

// StateUpdate carries the fields written by one applied answer. The version
// increment itself happens in the repository, filtered on the expected
// version.
type StateUpdate struct {
	CurrentDifficulty int
	Streak            int
	MaxStreak         int
	TotalScore        int
	Correct           bool
	AnsweredAt        time.Time
}
