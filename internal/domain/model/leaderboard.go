package model

// ScoreRow is the slice of a submission the leaderboard needs.
type ScoreRow struct {
	StudentID string `json:"student_id"`
	Score     int    `json:"score"`
}

type LeaderboardEntry struct {
	StudentID  string `json:"student_id"`
	TotalScore int    `json:"total_score"`
}
