package model

// Leaderboard kinds
const (
	LeaderboardScore  = "score"
	LeaderboardStreak = "streak"
)

// LeaderboardEntry is one ranked row on a board
type LeaderboardEntry struct {
	Rank          int64  `json:"rank"`
	UserID        string `json:"userId"`
	Username      string `json:"username"`
	TotalScore    int    `json:"totalScore"`
	CurrentStreak int    `json:"currentStreak"`
	MaxStreak     int    `json:"maxStreak"`
}

// LeaderboardResponse is the top-N listing plus the caller's own entry
type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	CurrentUser *LeaderboardEntry  `json:"currentUser"`
}
