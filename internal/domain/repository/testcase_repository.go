package repository

import (
	"context"
	"database/sql"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

type TestcaseRepository interface {
	Create(ctx context.Context, tc *model.Testcase) error
	ListByQuestion(ctx context.Context, questionID string) ([]model.Testcase, error)
}

var testcaseConstraints = map[string]string{
	"testcases_pkey":             "testcase already exists",
	"testcases_question_id_fkey": "question_id does not reference a question",
}

type pgTestcaseRepository struct {
	db *sql.DB
}

func NewPgTestcaseRepository(db *sql.DB) TestcaseRepository {
	return &pgTestcaseRepository{db: db}
}

func (r *pgTestcaseRepository) Create(ctx context.Context, tc *model.Testcase) error {
	query := `INSERT INTO testcases (id, question_id, input, output, is_hidden)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, tc.ID, tc.QuestionID, tc.Input, tc.Output, tc.IsHidden).Scan(&tc.CreatedAt)
	if err != nil {
		return common.StorageError("pgTestcaseRepository.Create", err, testcaseConstraints)
	}
	return nil
}

func (r *pgTestcaseRepository) ListByQuestion(ctx context.Context, questionID string) ([]model.Testcase, error) {
	query := `SELECT id, question_id, input, output, is_hidden, created_at
	          FROM testcases WHERE question_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, common.StorageError("pgTestcaseRepository.ListByQuestion", err, nil)
	}
	defer rows.Close()

	testcases := []model.Testcase{}
	for rows.Next() {
		var tc model.Testcase
		if err := rows.Scan(&tc.ID, &tc.QuestionID, &tc.Input, &tc.Output, &tc.IsHidden, &tc.CreatedAt); err != nil {
			return nil, common.StorageError("pgTestcaseRepository.ListByQuestion scan", err, nil)
		}
		testcases = append(testcases, tc)
	}
	if err := closeRows(rows, "pgTestcaseRepository.ListByQuestion"); err != nil {
		return nil, err
	}
	return testcases, nil
}
