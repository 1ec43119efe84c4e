package repository

import (
	"context"
	"database/sql"
	"fmt"

	"codeclash/internal/common"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func conn(db *sql.DB, tx *sql.Tx) dbtx {
	if tx != nil {
		return tx
	}
	return db
}

// Transactor runs fn inside one database transaction. Implementations that
// have no transactions call fn with a nil tx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type pgTransactor struct {
	db *sql.DB
}

func NewPgTransactor(db *sql.DB) Transactor {
	return &pgTransactor{db: db}
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return common.StorageError("pgTransactor.BeginTx", err, nil)
	}
	defer tx.Rollback() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return common.StorageError("pgTransactor.Commit", err, nil)
	}
	return nil
}

func closeRows(rows *sql.Rows, op string) error {
	if err := rows.Err(); err != nil {
		return common.StorageError(op, err, nil)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("%s: closing rows: %w", op, err)
	}
	return nil
}

// Set groups one implementation of every repository.
type Set struct {
	Users       UserRepository
	Profiles    ProfileRepository
	Contests    ContestRepository
	Questions   QuestionRepository
	Testcases   TestcaseRepository
	Submissions SubmissionRepository
	Sessions    SessionRepository
	Tx          Transactor
}

// NewPgSet backs every table with Postgres and token revocation with Redis.
func NewPgSet(db *sql.DB, sessions SessionRepository) Set {
	return Set{
		Users:       NewPgUserRepository(db),
		Profiles:    NewPgProfileRepository(db),
		Contests:    NewPgContestRepository(db),
		Questions:   NewPgQuestionRepository(db),
		Testcases:   NewPgTestcaseRepository(db),
		Submissions: NewPgSubmissionRepository(db),
		Sessions:    sessions,
		Tx:          NewPgTransactor(db),
	}
}
