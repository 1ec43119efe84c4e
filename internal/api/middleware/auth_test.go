package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeclash/internal/common/security"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository/memory"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T, tokens *security.TokenIssuer, auth *Auth, extra ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserIDFromContext(r.Context())
		role, _ := GetUserRoleFromContext(r.Context())
		_, _, ok := GetTokenFromContext(r.Context())
		assert.True(t, ok)
		w.Write([]byte(userID + ":" + role))
	})
	var h http.Handler = final
	for i := len(extra) - 1; i >= 0; i-- {
		h = extra[i](h)
	}
	return jwtauth.Verifier(tokens.JWTAuth())(auth.Authenticator(h))
}

func call(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator(t *testing.T) {
	store := memory.NewStore()
	tokens := security.NewTokenIssuer([]byte("secret"), time.Hour)
	auth := NewAuth(store.Sessions())
	h := protected(t, tokens, auth)

	good, err := tokens.GenerateToken("u-1", "student")
	require.NoError(t, err)

	rec := call(h, good)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1:student", rec.Body.String())

	rec = call(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authorization token required"}`, rec.Body.String())

	rec = call(h, "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	foreign, err := security.NewTokenIssuer([]byte("other"), time.Hour).GenerateToken("u-1", "teacher")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(h, foreign).Code)

	expired, err := security.NewTokenIssuer([]byte("secret"), -time.Minute).GenerateToken("u-1", "student")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(h, expired).Code)

	decoded, err := tokens.JWTAuth().Decode(good)
	require.NoError(t, err)
	require.NoError(t, store.Sessions().Revoke(context.Background(), decoded.JwtID(), time.Hour))
	rec = call(h, good)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Token has been revoked"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	tokens := security.NewTokenIssuer([]byte("secret"), time.Hour)
	h := protected(t, tokens, NewAuth(memory.NewStore().Sessions()), RequireRole(model.RoleTeacher))

	teacher, err := tokens.GenerateToken("t-1", "teacher")
	require.NoError(t, err)
	student, err := tokens.GenerateToken("s-1", "student")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, call(h, teacher).Code)
	rec := call(h, student)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Not authorized: teacher access required"}`, rec.Body.String())
}

func TestNewPolicy(t *testing.T) {
	auth := NewAuth(memory.NewStore().Sessions())

	open := NewPolicy(auth, false)
	assert.Empty(t, open.Authenticated)
	assert.Empty(t, open.Teacher)
	assert.NotNil(t, open.Authenticator)

	locked := NewPolicy(auth, true)
	assert.Len(t, locked.Authenticated, 1)
	assert.Len(t, locked.Teacher, 2)
}
