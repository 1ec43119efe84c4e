package service

import (
	"context"
	"errors"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
)

var errNotATeacher = common.WithMessage("Not authorized: not a teacher", common.ErrForbidden)

type ContestService struct {
	contests  repository.ContestRepository
	questions repository.QuestionRepository
	profiles  repository.ProfileRepository
}

func NewContestService(
	contests repository.ContestRepository,
	questions repository.QuestionRepository,
	profiles repository.ProfileRepository,
) *ContestService {
	return &ContestService{contests: contests, questions: questions, profiles: profiles}
}

type CreateContestRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	TeacherID   string    `json:"teacher_id" validate:"required,uuid"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
}

// StudentContest is a contest with the public summary of each question.
type StudentContest struct {
	Contest   *model.Contest          `json:"contest"`
	Questions []model.QuestionSummary `json:"questions"`
}

// ContestDetail is the owner's view, hidden test data included.
type ContestDetail struct {
	Contest   *model.Contest   `json:"contest"`
	Questions []model.Question `json:"questions"`
}

// CreateContest checks the creator's role before inserting. The check and the
// insert are not atomic.
func (s *ContestService) CreateContest(ctx context.Context, req CreateContestRequest) (*model.Contest, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errNotATeacher
		}
		return nil, failed("Failed to create contest", err)
	}
	if profile.Role != model.RoleTeacher {
		log.WithFields(log.Fields{"teacher_id": req.TeacherID, "role": profile.Role}).Warn("contest creation by non-teacher rejected")
		return nil, errNotATeacher
	}

	contest := &model.Contest{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatedBy:   req.TeacherID,
	}
	if err := s.contests.Create(ctx, contest); err != nil {
		return nil, failed("Failed to create contest", err)
	}
	return contest, nil
}

// ListContests returns contests ordered by start time, optionally only those
// created by teacherID.
func (s *ContestService) ListContests(ctx context.Context, teacherID string) ([]model.Contest, error) {
	if teacherID != "" && !isID(teacherID) {
		return []model.Contest{}, nil
	}
	contests, err := s.contests.List(ctx, teacherID)
	if err != nil {
		return nil, failed("Failed to fetch contests", err)
	}
	return contests, nil
}

func (s *ContestService) GetStudentContest(ctx context.Context, id string) (*StudentContest, error) {
	contest, questions, err := s.contestWithQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.QuestionSummary, 0, len(questions))
	for i := range questions {
		summaries = append(summaries, questions[i].Summary())
	}
	return &StudentContest{Contest: contest, Questions: summaries}, nil
}

func (s *ContestService) GetContest(ctx context.Context, id string) (*ContestDetail, error) {
	contest, questions, err := s.contestWithQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ContestDetail{Contest: contest, Questions: questions}, nil
}

func (s *ContestService) contestWithQuestions(ctx context.Context, id string) (*model.Contest, []model.Question, error) {
	if !isID(id) {
		return nil, nil, common.WithMessage("Contest not found", common.ErrNotFound)
	}
	contest, err := s.contests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.WithMessage("Contest not found", err)
		}
		return nil, nil, failed("Failed to fetch contest", err)
	}
	questions, err := s.questions.ListByContest(ctx, id)
	if err != nil {
		return nil, nil, failed("Failed to fetch questions", err)
	}
	return contest, questions, nil
}
