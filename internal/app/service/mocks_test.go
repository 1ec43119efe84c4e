package service

import (
	"context"

	"codeclash/internal/domain/model"
	"codeclash/internal/platform/judge"

	"github.com/stretchr/testify/mock"
)

type MockJudge struct {
	mock.Mock
}

func (m *MockJudge) Execute(ctx context.Context, req judge.Request) (*judge.Result, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*judge.Result)
	return res, args.Error(1)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubmissionRepository) ListScoresByContest(ctx context.Context, contestID string) ([]model.ScoreRow, error) {
	args := m.Called(ctx, contestID)
	rows, _ := args.Get(0).([]model.ScoreRow)
	return rows, args.Error(1)
}

func (m *MockSubmissionRepository) ListByStudent(ctx context.Context, studentID, contestID string) ([]model.Submission, error) {
	args := m.Called(ctx, studentID, contestID)
	subs, _ := args.Get(0).([]model.Submission)
	return subs, args.Error(1)
}
