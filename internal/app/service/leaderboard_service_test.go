package service

import (
	"context"
	"errors"
	"testing"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRankScores(t *testing.T) {
	t.Run("resubmissions are summed, not deduplicated", func(t *testing.T) {
		got := RankScores([]model.ScoreRow{
			{StudentID: "x", Score: 100},
			{StudentID: "x", Score: 0},
		})
		assert.Equal(t, []model.LeaderboardEntry{{StudentID: "x", TotalScore: 100}}, got)

		got = RankScores([]model.ScoreRow{
			{StudentID: "x", Score: 100},
			{StudentID: "x", Score: 100},
		})
		assert.Equal(t, []model.LeaderboardEntry{{StudentID: "x", TotalScore: 200}}, got)
	})

	t.Run("sorted by total descending", func(t *testing.T) {
		got := RankScores([]model.ScoreRow{
			{StudentID: "a", Score: 30},
			{StudentID: "b", Score: 90},
			{StudentID: "c", Score: 90},
			{StudentID: "d", Score: 10},
		})
		require.Len(t, got, 4)

		var totals []int
		for _, e := range got {
			totals = append(totals, e.TotalScore)
		}
		assert.Equal(t, []int{90, 90, 30, 10}, totals)
		assert.ElementsMatch(t, []string{"b", "c"}, []string{got[0].StudentID, got[1].StudentID})
		assert.Equal(t, "a", got[2].StudentID)
		assert.Equal(t, "d", got[3].StudentID)
	})

	t.Run("totals equal the per-student sum", func(t *testing.T) {
		rows := []model.ScoreRow{
			{StudentID: "a", Score: 100}, {StudentID: "b", Score: 0}, {StudentID: "a", Score: 0},
			{StudentID: "c", Score: 100}, {StudentID: "b", Score: 100}, {StudentID: "a", Score: 100},
		}
		want := map[string]int{}
		for _, r := range rows {
			want[r.StudentID] += r.Score
		}

		got := RankScores(rows)
		require.Len(t, got, len(want))
		for _, e := range got {
			assert.Equal(t, want[e.StudentID], e.TotalScore, e.StudentID)
		}
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].TotalScore, got[i].TotalScore)
		}
	})

	t.Run("students with only zero scores are listed", func(t *testing.T) {
		got := RankScores([]model.ScoreRow{{StudentID: "z", Score: 0}})
		assert.Equal(t, []model.LeaderboardEntry{{StudentID: "z", TotalScore: 0}}, got)
	})

	t.Run("no rows gives an empty, non-nil list", func(t *testing.T) {
		got := RankScores(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestContestLeaderboard(t *testing.T) {
	contestID := uuid.NewString()

	t.Run("folds repository rows", func(t *testing.T) {
		repo := new(MockSubmissionRepository)
		repo.On("ListScoresByContest", mock.Anything, contestID).Return([]model.ScoreRow{
			{StudentID: "a", Score: 0}, {StudentID: "b", Score: 100},
		}, nil).Once()

		got, err := NewLeaderboardService(repo).ContestLeaderboard(context.Background(), contestID)
		require.NoError(t, err)
		assert.Equal(t, []model.LeaderboardEntry{{StudentID: "b", TotalScore: 100}, {StudentID: "a", TotalScore: 0}}, got)
		repo.AssertExpectations(t)
	})

	t.Run("fetch failure returns nothing", func(t *testing.T) {
		repo := new(MockSubmissionRepository)
		repo.On("ListScoresByContest", mock.Anything, contestID).
			Return(nil, common.StorageError("list", errors.New("timeout"), nil)).Once()

		got, err := NewLeaderboardService(repo).ContestLeaderboard(context.Background(), contestID)
		assert.Nil(t, got)
		require.ErrorIs(t, err, common.ErrStorage)
		assert.Equal(t, "Failed to fetch submissions", common.ErrorBody(err).Error)
	})

	t.Run("malformed id has no submissions", func(t *testing.T) {
		repo := new(MockSubmissionRepository)
		got, err := NewLeaderboardService(repo).ContestLeaderboard(context.Background(), "abc")
		require.NoError(t, err)
		assert.Empty(t, got)
		repo.AssertNotCalled(t, "ListScoresByContest", mock.Anything, mock.Anything)
	})
}
