package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"
	"codeclash/internal/platform/judge"
	"codeclash/internal/platform/metrics"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Judge runs one submission to completion. *judge.Client satisfies it.
type Judge interface {
	Execute(ctx context.Context, req judge.Request) (*judge.Result, error)
}

type SubmissionService struct {
	submissions repository.SubmissionRepository
	judge       Judge
	metrics     *metrics.Metrics
}

func NewSubmissionService(submissions repository.SubmissionRepository, j Judge, m *metrics.Metrics) *SubmissionService {
	return &SubmissionService{submissions: submissions, judge: j, metrics: m}
}

type SubmitRequest struct {
	StudentID      string `json:"student_id" validate:"required,uuid"`
	ContestID      string `json:"contest_id" validate:"required,uuid"`
	QuestionID     string `json:"question_id" validate:"required,uuid"`
	Code           string `json:"code" validate:"required"`
	Language       string `json:"language" validate:"required"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// SubmitResult is what the caller sees: the judge's payload untouched plus
// the verdict string it was classified from.
type SubmitResult struct {
	JudgeResult json.RawMessage   `json:"judge0_result"`
	Verdict     string            `json:"verdict"`
	Submission  *model.Submission `json:"-"`
}

// Submit validates, judges and records one attempt. The judge is called at
// most once and nothing is stored when it fails. If storing fails after a
// verdict, the result is returned together with an ErrStorage error.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	lang, err := model.ParseLanguage(req.Language)
	if err != nil {
		return nil, err
	}

	result, err := s.judge.Execute(ctx, judge.Request{
		SourceCode:     req.Code,
		LanguageID:     lang.JudgeID(),
		Stdin:          req.Input,
		ExpectedOutput: req.ExpectedOutput,
	})
	if err != nil {
		return nil, err
	}

	verdict := result.Description()
	if verdict == "" {
		verdict = model.VerdictUnknown
	}
	status := model.ClassifyVerdict(verdict)

	sub := &model.Submission{
		ID:         uuid.NewString(),
		StudentID:  req.StudentID,
		ContestID:  req.ContestID,
		QuestionID: req.QuestionID,
		Code:       req.Code,
		Language:   lang,
		Status:     status,
		Score:      model.ScoreFor(status),
	}
	out := &SubmitResult{JudgeResult: result.Raw, Verdict: verdict, Submission: sub}

	logger := log.WithFields(log.Fields{
		"student_id":  req.StudentID,
		"question_id": req.QuestionID,
		"verdict":     verdict,
	})
	if err := s.submissions.Create(ctx, sub); err != nil {
		s.count(status, false)
		logger.WithError(err).Error("judged submission could not be saved")
		// every persistence failure is a server error here, constraint violations included
		return out, common.WithMessage("Failed to save submission", fmt.Errorf("%w: %v", common.ErrStorage, err))
	}
	s.count(status, true)
	logger.WithField("status", status).Info("submission recorded")
	return out, nil
}

// ListStudentSubmissions returns a student's attempts, newest first.
func (s *SubmissionService) ListStudentSubmissions(ctx context.Context, studentID, contestID string) ([]model.Submission, error) {
	if err := common.Validate(struct {
		StudentID string `json:"student_id" validate:"required,uuid"`
		ContestID string `json:"contest_id" validate:"omitempty,uuid"`
	}{studentID, contestID}); err != nil {
		return nil, err
	}
	subs, err := s.submissions.ListByStudent(ctx, studentID, contestID)
	if err != nil {
		return nil, failed("Failed to fetch submissions", err)
	}
	return subs, nil
}

func (s *SubmissionService) count(status model.SubmissionStatus, persisted bool) {
	if s.metrics == nil {
		return
	}
	s.metrics.SubmissionTotals.WithLabelValues(string(status), strconv.FormatBool(persisted)).Inc()
}
