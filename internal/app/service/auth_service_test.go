package service

import (
	"context"
	"testing"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/common/security"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(store *memory.Store) (*AuthService, *security.TokenIssuer) {
	tokens := security.NewTokenIssuer([]byte("test-secret"), time.Hour)
	return NewAuthService(store.Users(), store.Profiles(), store.Sessions(), store.Transactor(), tokens), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	store := memory.NewStore()
	svc, tokens := newAuthService(store)
	ctx := context.Background()

	profile, err := svc.Register(ctx, RegisterRequest{
		Email: "ada@example.com", Password: "hunter22", FullName: "Ada Lovelace", Role: "teacher",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, profile.Role)

	user, err := store.Users().FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", user.HashedPassword)

	resp, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, profile.ID, resp.User.ID)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, model.RoleTeacher, resp.User.Role)

	token, err := tokens.JWTAuth().Decode(resp.Token)
	require.NoError(t, err)
	claims, err := token.AsMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims["user_id"])
	assert.Equal(t, "teacher", claims["role"])
}

func TestRegisterValidation(t *testing.T) {
	store := memory.NewStore()
	svc, _ := newAuthService(store)

	tests := []struct {
		name    string
		req     RegisterRequest
		wantMsg string
	}{
		{"missing name", RegisterRequest{Email: "a@b.com", Password: "secret1", Role: "student"}, "missing required field full_name"},
		{"bad role", RegisterRequest{Email: "a@b.com", Password: "secret1", FullName: "A", Role: "admin"}, "role must be one of [student teacher]"},
		{"bad email", RegisterRequest{Email: "nope", Password: "secret1", FullName: "A", Role: "student"}, "email must be a valid email address"},
		{"short password", RegisterRequest{Email: "a@b.com", Password: "123", FullName: "A", Role: "student"}, "password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			require.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, tt.wantMsg, common.ErrorBody(err).Error)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := memory.NewStore()
	svc, _ := newAuthService(store)
	req := RegisterRequest{Email: "dup@example.com", Password: "secret1", FullName: "A", Role: "student"}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 400, common.HTTPStatusFromError(err))
}

func TestEmailIsCaseInsensitive(t *testing.T) {
	store := memory.NewStore()
	svc, _ := newAuthService(store)
	ctx := context.Background()

	profile, err := svc.Register(ctx, RegisterRequest{
		Email: "  Alice@Example.com ", Password: "secret1", FullName: "Alice", Role: "student",
	})
	require.NoError(t, err)

	user, err := store.Users().FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	resp, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, profile.ID, resp.User.ID)

	resp, err = svc.Login(ctx, LoginRequest{Email: "ALICE@EXAMPLE.COM", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	_, err = svc.Register(ctx, RegisterRequest{
		Email: "alice@example.com", Password: "secret2", FullName: "Other", Role: "teacher",
	})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "user with this email already exists", common.ErrorBody(err).Error)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := memory.NewStore()
	svc, _ := newAuthService(store)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "grace@example.com", Password: "correct-horse", FullName: "Grace", Role: "student",
	})
	require.NoError(t, err)

	for _, req := range []LoginRequest{
		{Email: "grace@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "correct-horse"},
	} {
		_, err := svc.Login(context.Background(), req)
		require.ErrorIs(t, err, common.ErrUnauthorized)
		assert.Equal(t, "Invalid email or password", common.ErrorBody(err).Error)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	store := memory.NewStore()
	svc, _ := newAuthService(store)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := store.Sessions().IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, svc.Logout(ctx, "jti-2", time.Now().Add(-time.Minute)))
	revoked, err = store.Sessions().IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
