package repository

import (
	"context"
	"database/sql"
	"errors"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, tx *sql.Tx, profile *model.Profile) error
	FindByID(ctx context.Context, id string) (*model.Profile, error)
}

var profileConstraints = map[string]string{
	"profiles_pkey":    "profile already exists",
	"profiles_id_fkey": "profile must belong to an existing user",
}

type pgProfileRepository struct {
	db *sql.DB
}

func NewPgProfileRepository(db *sql.DB) ProfileRepository {
	return &pgProfileRepository{db: db}
}

func (r *pgProfileRepository) Create(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	query := `INSERT INTO profiles (id, full_name, role)
	          VALUES ($1, $2, $3)
	          RETURNING created_at`
	err := conn(r.db, tx).QueryRowContext(ctx, query, p.ID, p.FullName, p.Role).Scan(&p.CreatedAt)
	if err != nil {
		return common.StorageError("pgProfileRepository.Create", err, profileConstraints)
	}
	return nil
}

func (r *pgProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	query := `SELECT id, full_name, role, created_at FROM profiles WHERE id = $1`
	p := &model.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.FullName, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.StorageError("pgProfileRepository.FindByID", err, nil)
	}
	return p, nil
}
