package model

import "time"

// AnswerLog is an append-only record of one accepted submission. The unique
// index on AnswerIdempotencyKey makes the insert the serialization point for
// duplicate submissions.
type AnswerLog struct {
	ID                   string    `json:"id" bson:"_id,omitempty"`
	UserID               string    `json:"userId" bson:"userId"`
	QuestionID           string    `json:"questionId" bson:"questionId"`
	Difficulty           int       `json:"difficulty" bson:"difficulty"`
	Answer               string    `json:"answer" bson:"answer"`
	Correct              bool      `json:"correct" bson:"correct"`
	ScoreDelta           int       `json:"scoreDelta" bson:"scoreDelta"`
	StreakAtAnswer       int       `json:"streakAtAnswer" bson:"streakAtAnswer"`
	AnsweredAt           time.Time `json:"answeredAt" bson:"answeredAt"`
	AnswerIdempotencyKey string    `json:"answerIdempotencyKey" bson:"answerIdempotencyKey"`
}
