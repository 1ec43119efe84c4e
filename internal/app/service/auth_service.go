package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/common/security"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type AuthService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	sessions repository.SessionRepository
	tx       repository.Transactor
	tokens   *security.TokenIssuer
}

func NewAuthService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	sessions repository.SessionRepository,
	tx repository.Transactor,
	tokens *security.TokenIssuer,
) *AuthService {
	return &AuthService{users: users, profiles: profiles, sessions: sessions, tx: tx, tokens: tokens}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student teacher"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SessionUser struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type LoginResponse struct {
	User  SessionUser `json:"user"`
	Token string      `json:"token"`
}

// Register creates the account and its profile together; neither exists
// without the other.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.Profile, error) {
	req.Email = normalizeEmail(req.Email)
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		HashedPassword: hashedPassword,
	}
	profile := &model.Profile{
		ID:       user.ID,
		FullName: req.FullName,
		Role:     model.Role(req.Role),
	}

	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		return s.profiles.Create(ctx, tx, profile)
	})
	if err != nil {
		return nil, failed("Failed to create user", err)
	}

	log.WithFields(log.Fields{"user_id": user.ID, "role": profile.Role}).Info("user registered")
	return profile, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage("Invalid email or password", common.ErrUnauthorized)
		}
		return nil, failed("Failed to sign in", err)
	}
	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.WithMessage("Invalid email or password", common.ErrUnauthorized)
	}

	profile, err := s.profiles.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// accounts are only ever created together with a profile
			err = fmt.Errorf("profile for user %s is missing: %w", user.ID, common.ErrStorage)
		}
		return nil, common.WithMessage("Failed to fetch user profile", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, string(profile.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		User:  SessionUser{ID: user.ID, Email: user.Email, Role: profile.Role},
		Token: token,
	}, nil
}

// Logout revokes a token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.sessions.Revoke(ctx, tokenID, time.Until(expiresAt)); err != nil {
		return failed("Failed to sign out", err)
	}
	return nil
}

// normalizeEmail makes addresses match regardless of case or surrounding space.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
