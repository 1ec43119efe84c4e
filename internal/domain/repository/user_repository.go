package repository

import (
	"context"
	"database/sql"
	"errors"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, tx *sql.Tx, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

var userConstraints = map[string]string{
	"users_email_key": "user with this email already exists",
	"users_pkey":      "user already exists",
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	query := `INSERT INTO users (id, email, hashed_password)
	          VALUES ($1, $2, $3)
	          RETURNING created_at`
	err := conn(r.db, tx).QueryRowContext(ctx, query, user.ID, user.Email, user.HashedPassword).Scan(&user.CreatedAt)
	if err != nil {
		return common.StorageError("pgUserRepository.Create", err, userConstraints)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, hashed_password, created_at
	          FROM users WHERE lower(email) = lower($1)`
	return r.findOne(ctx, "pgUserRepository.FindByEmail", query, email)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, email, hashed_password, created_at
	          FROM users WHERE id = $1`
	return r.findOne(ctx, "pgUserRepository.FindByID", query, id)
}

func (r *pgUserRepository) findOne(ctx context.Context, op, query string, arg any) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.StorageError(op, err, nil)
	}
	return user, nil
}
