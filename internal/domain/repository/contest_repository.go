package repository

import (
	"context"
	"database/sql"
	"errors"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

type ContestRepository interface {
	Create(ctx context.Context, contest *model.Contest) error
	FindByID(ctx context.Context, id string) (*model.Contest, error)
	// List returns contests ordered by start time. An empty createdBy lists every contest.
	List(ctx context.Context, createdBy string) ([]model.Contest, error)
}

var contestConstraints = map[string]string{
	"contests_pkey":            "contest already exists",
	"contests_created_by_fkey": "teacher_id does not reference a profile",
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

const contestColumns = `id, title, slug, description, start_time, end_time, created_by, created_at`

func (r *pgContestRepository) Create(ctx context.Context, c *model.Contest) error {
	query := `INSERT INTO contests (id, title, slug, description, start_time, end_time, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Title, c.Slug, c.Description, c.StartTime, c.EndTime, c.CreatedBy,
	).Scan(&c.CreatedAt)
	if err != nil {
		return common.StorageError("pgContestRepository.Create", err, contestConstraints)
	}
	return nil
}

func (r *pgContestRepository) FindByID(ctx context.Context, id string) (*model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests WHERE id = $1`
	c := &model.Contest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.StartTime, &c.EndTime, &c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.StorageError("pgContestRepository.FindByID", err, nil)
	}
	return c, nil
}

func (r *pgContestRepository) List(ctx context.Context, createdBy string) ([]model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests`
	var args []any
	if createdBy != "" {
		query += ` WHERE created_by = $1`
		args = append(args, createdBy)
	}
	query += ` ORDER BY start_time ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.StorageError("pgContestRepository.List", err, nil)
	}
	defer rows.Close()

	contests := []model.Contest{}
	for rows.Next() {
		var c model.Contest
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.StartTime, &c.EndTime, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, common.StorageError("pgContestRepository.List scan", err, nil)
		}
		contests = append(contests, c)
	}
	if err := closeRows(rows, "pgContestRepository.List"); err != nil {
		return nil, err
	}
	return contests, nil
}
