package service

import (
	"context"
	"errors"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type QuestionService struct {
	questions repository.QuestionRepository
	testcases repository.TestcaseRepository
}

func NewQuestionService(questions repository.QuestionRepository, testcases repository.TestcaseRepository) *QuestionService {
	return &QuestionService{questions: questions, testcases: testcases}
}

type CreateQuestionRequest struct {
	ContestID    string  `json:"contest_id" validate:"required,uuid"`
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	SampleInput  string  `json:"sample_input" validate:"required"`
	SampleOutput string  `json:"sample_output" validate:"required"`
	HiddenInput  *string `json:"hidden_input"`
	HiddenOutput *string `json:"hidden_output"`
	Difficulty   *string `json:"difficulty"`
	Points       *int    `json:"points" validate:"omitempty,min=0"`
	StarterCode  *string `json:"starter_code"`
}

type CreateTestcaseRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Input      string `json:"input" validate:"required"`
	Output     string `json:"output" validate:"required"`
	IsHidden   bool   `json:"is_hidden"`
}

func (s *QuestionService) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*model.Question, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	q := &model.Question{
		ID:           uuid.NewString(),
		ContestID:    req.ContestID,
		Title:        req.Title,
		Description:  req.Description,
		Difficulty:   req.Difficulty,
		Points:       req.Points,
		SampleInput:  req.SampleInput,
		SampleOutput: req.SampleOutput,
		HiddenInput:  req.HiddenInput,
		HiddenOutput: req.HiddenOutput,
		StarterCode:  req.StarterCode,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, failed("Failed to create question", err)
	}
	return q, nil
}

// GetStudentQuestion returns the public fields of a question.
func (s *QuestionService) GetStudentQuestion(ctx context.Context, id string) (*model.StudentQuestion, error) {
	if !isID(id) {
		return nil, common.WithMessage("Question not found", common.ErrNotFound)
	}
	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage("Question not found", err)
		}
		return nil, failed("Failed to fetch question", err)
	}
	view := q.StudentView()
	return &view, nil
}

// DeleteQuestion is unconditional. Unknown ids succeed.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	if !isID(id) {
		return nil
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return failed("Failed to delete question", err)
	}
	log.WithField("question_id", id).Info("question deleted")
	return nil
}

func (s *QuestionService) AddTestcase(ctx context.Context, req CreateTestcaseRequest) (*model.Testcase, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	tc := &model.Testcase{
		ID:         uuid.NewString(),
		QuestionID: req.QuestionID,
		Input:      req.Input,
		Output:     req.Output,
		IsHidden:   req.IsHidden,
	}
	if err := s.testcases.Create(ctx, tc); err != nil {
		return nil, failed("Failed to add testcase", err)
	}
	return tc, nil
}

func (s *QuestionService) ListTestcases(ctx context.Context, questionID string) ([]model.Testcase, error) {
	if !isID(questionID) {
		return nil, common.WithMessage("Question not found", common.ErrNotFound)
	}
	if _, err := s.questions.FindByID(ctx, questionID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage("Question not found", err)
		}
		return nil, failed("Failed to fetch question", err)
	}
	testcases, err := s.testcases.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, failed("Failed to fetch testcases", err)
	}
	return testcases, nil
}
