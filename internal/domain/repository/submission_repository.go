package repository

import (
	"context"
	"database/sql"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

// SubmissionRepository is append-only: there is no update or delete.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	// ListScoresByContest returns one row per submission in insertion order.
	ListScoresByContest(ctx context.Context, contestID string) ([]model.ScoreRow, error)
	// ListByStudent returns a student's submissions, newest first. An empty
	// contestID spans every contest.
	ListByStudent(ctx context.Context, studentID, contestID string) ([]model.Submission, error)
}

var submissionConstraints = map[string]string{
	"submissions_pkey":            "submission already exists",
	"submissions_contest_id_fkey": "contest_id does not reference a contest",
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	query := `INSERT INTO submissions (id, student_id, contest_id, question_id, code, language, status, score)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.StudentID, s.ContestID, s.QuestionID, s.Code, s.Language, s.Status, s.Score,
	).Scan(&s.CreatedAt)
	if err != nil {
		return common.StorageError("pgSubmissionRepository.Create", err, submissionConstraints)
	}
	return nil
}

func (r *pgSubmissionRepository) ListScoresByContest(ctx context.Context, contestID string) ([]model.ScoreRow, error) {
	query := `SELECT student_id, score FROM submissions WHERE contest_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, common.StorageError("pgSubmissionRepository.ListScoresByContest", err, nil)
	}
	defer rows.Close()

	scores := []model.ScoreRow{}
	for rows.Next() {
		var row model.ScoreRow
		if err := rows.Scan(&row.StudentID, &row.Score); err != nil {
			return nil, common.StorageError("pgSubmissionRepository.ListScoresByContest scan", err, nil)
		}
		scores = append(scores, row)
	}
	if err := closeRows(rows, "pgSubmissionRepository.ListScoresByContest"); err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *pgSubmissionRepository) ListByStudent(ctx context.Context, studentID, contestID string) ([]model.Submission, error) {
	query := `SELECT id, student_id, contest_id, question_id, code, language, status, score, created_at
	          FROM submissions WHERE student_id = $1`
	args := []any{studentID}
	if contestID != "" {
		query += ` AND contest_id = $2`
		args = append(args, contestID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.StorageError("pgSubmissionRepository.ListByStudent", err, nil)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.StudentID, &s.ContestID, &s.QuestionID, &s.Code, &s.Language, &s.Status, &s.Score, &s.CreatedAt); err != nil {
			return nil, common.StorageError("pgSubmissionRepository.ListByStudent scan", err, nil)
		}
		subs = append(subs, s)
	}
	if err := closeRows(rows, "pgSubmissionRepository.ListByStudent"); err != nil {
		return nil, err
	}
	return subs, nil
}
