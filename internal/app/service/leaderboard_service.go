package service

import (
	"context"
	"sort"

	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"
)

type LeaderboardService struct {
	submissions repository.SubmissionRepository
}

func NewLeaderboardService(submissions repository.SubmissionRepository) *LeaderboardService {
	return &LeaderboardService{submissions: submissions}
}

// ContestLeaderboard recomputes the ranking from every submission on each call.
func (s *LeaderboardService) ContestLeaderboard(ctx context.Context, contestID string) ([]model.LeaderboardEntry, error) {
	if !isID(contestID) {
		return []model.LeaderboardEntry{}, nil
	}
	rows, err := s.submissions.ListScoresByContest(ctx, contestID)
	if err != nil {
		return nil, failed("Failed to fetch submissions", err)
	}
	return RankScores(rows), nil
}

// RankScores sums scores per student and sorts by total, highest first.
// Every row counts, so resubmissions to one question add up. Equal totals
// keep the order in which the students first appear in rows.
func RankScores(rows []model.ScoreRow) []model.LeaderboardEntry {
	totals := make(map[string]int)
	var order []string
	for _, row := range rows {
		if _, seen := totals[row.StudentID]; !seen {
			order = append(order, row.StudentID)
		}
		totals[row.StudentID] += row.Score
	}

	entries := make([]model.LeaderboardEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, model.LeaderboardEntry{StudentID: id, TotalScore: totals[id]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	return entries
}
