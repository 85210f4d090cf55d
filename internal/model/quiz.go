package model

// NextQuestionResponse is returned when a question is served. It carries a
// snapshot of the user's adaptive state so the client can echo StateVersion
// back on submission.
type NextQuestionResponse struct {
	QuestionID    string   `json:"questionId"`
	Difficulty    int      `json:"difficulty"`
	Prompt        string   `json:"prompt"`
	Choices       []string `json:"choices"`
	SessionID     string   `json:"sessionId"`
	StateVersion  int64    `json:"stateVersion"`
	CurrentScore  int      `json:"currentScore"`
	CurrentStreak int      `json:"currentStreak"`
}

// SubmitAnswerRequest is the request body for answer submission.
// StateVersion is optional; when omitted the optimistic-concurrency check is
// skipped.
type SubmitAnswerRequest struct {
	QuestionID           string `json:"questionId"`
	Answer               string `json:"answer"`
	StateVersion         *int64 `json:"stateVersion,omitempty"`
	AnswerIdempotencyKey string `json:"answerIdempotencyKey"`
}

// SubmitAnswerResponse is the outcome of one applied (or replayed) answer
type SubmitAnswerResponse struct {
	Correct               bool  `json:"correct"`
	NewDifficulty         int   `json:"newDifficulty"`
	NewStreak             int   `json:"newStreak"`
	ScoreDelta            int   `json:"scoreDelta"`
	TotalScore            int   `json:"totalScore"`
	StateVersion          int64 `json:"stateVersion"`
	LeaderboardRankScore  int64 `json:"leaderboardRankScore"`
	LeaderboardRankStreak int64 `json:"leaderboardRankStreak"`
	Idempotent            bool  `json:"idempotent,omitempty"`
}
