package repository

import (
	"context"
	"database/sql"
	"errors"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id string) (*model.Question, error)
	ListByContest(ctx context.Context, contestID string) ([]model.Question, error)
	// Delete removes the question and its testcases. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

var questionConstraints = map[string]string{
	"questions_pkey":            "question already exists",
	"questions_contest_id_fkey": "contest_id does not reference a contest",
}

type pgQuestionRepository struct {
	db *sql.DB
}

func NewPgQuestionRepository(db *sql.DB) QuestionRepository {
	return &pgQuestionRepository{db: db}
}

const questionColumns = `id, contest_id, title, description, difficulty, points,
	sample_input, sample_output, hidden_input, hidden_output, starter_code, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner, q *model.Question) error {
	return row.Scan(
		&q.ID, &q.ContestID, &q.Title, &q.Description, &q.Difficulty, &q.Points,
		&q.SampleInput, &q.SampleOutput, &q.HiddenInput, &q.HiddenOutput, &q.StarterCode, &q.CreatedAt,
	)
}

func (r *pgQuestionRepository) Create(ctx context.Context, q *model.Question) error {
	query := `INSERT INTO questions (id, contest_id, title, description, difficulty, points,
	              sample_input, sample_output, hidden_input, hidden_output, starter_code)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		q.ID, q.ContestID, q.Title, q.Description, q.Difficulty, q.Points,
		q.SampleInput, q.SampleOutput, q.HiddenInput, q.HiddenOutput, q.StarterCode,
	).Scan(&q.CreatedAt)
	if err != nil {
		return common.StorageError("pgQuestionRepository.Create", err, questionConstraints)
	}
	return nil
}

func (r *pgQuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	q := &model.Question{}
	if err := scanQuestion(r.db.QueryRowContext(ctx, query, id), q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.StorageError("pgQuestionRepository.FindByID", err, nil)
	}
	return q, nil
}

func (r *pgQuestionRepository) ListByContest(ctx context.Context, contestID string) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE contest_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, common.StorageError("pgQuestionRepository.ListByContest", err, nil)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, common.StorageError("pgQuestionRepository.ListByContest scan", err, nil)
		}
		questions = append(questions, q)
	}
	if err := closeRows(rows, "pgQuestionRepository.ListByContest"); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *pgQuestionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id); err != nil {
		return common.StorageError("pgQuestionRepository.Delete", err, nil)
	}
	return nil
}
