package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/common/security"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDCtxKey      contextKey = "userID"
	UserRoleCtxKey    contextKey = "userRole"
	TokenIDCtxKey     contextKey = "tokenID"
	TokenExpiryCtxKey contextKey = "tokenExpiry"
)

// Auth validates bearer tokens already decoded by jwtauth.Verifier and
// rejects those revoked by logout.
type Auth struct {
	sessions repository.SessionRepository
}

func NewAuth(sessions repository.SessionRepository) *Auth {
	return &Auth{sessions: sessions}
}

func (a *Auth) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			if errors.Is(err, jwtauth.ErrNoTokenFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}
		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}
		userRole, err := security.GetUserRoleFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}
		tokenID, err := security.GetTokenIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}
		expiry, err := security.GetExpiryFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		revoked, err := a.sessions.IsRevoked(r.Context(), tokenID)
		if err != nil {
			log.WithError(err).Error("token revocation lookup failed")
			common.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if revoked {
			common.RespondWithError(w, http.StatusUnauthorized, "Token has been revoked")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserRoleCtxKey, userRole)
		ctx = context.WithValue(ctx, TokenIDCtxKey, tokenID)
		ctx = context.WithValue(ctx, TokenExpiryCtxKey, expiry)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after Authenticator.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := GetUserRoleFromContext(r.Context())
			if !ok || userRole != string(role) {
				common.RespondWithError(w, http.StatusForbidden, "Not authorized: "+string(role)+" access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Policy holds the middleware applied to routes that change data. Both
// stacks are empty when authentication is not required.
type Policy struct {
	Authenticator func(http.Handler) http.Handler
	Authenticated []func(http.Handler) http.Handler
	Teacher       []func(http.Handler) http.Handler
}

func NewPolicy(auth *Auth, requireAuth bool) Policy {
	p := Policy{Authenticator: auth.Authenticator}
	if requireAuth {
		p.Authenticated = []func(http.Handler) http.Handler{auth.Authenticator}
		p.Teacher = []func(http.Handler) http.Handler{auth.Authenticator, RequireRole(model.RoleTeacher)}
	}
	return p
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	userRole, ok := ctx.Value(UserRoleCtxKey).(string)
	return userRole, ok
}

func GetTokenFromContext(ctx context.Context) (string, time.Time, bool) {
	tokenID, ok := ctx.Value(TokenIDCtxKey).(string)
	if !ok {
		return "", time.Time{}, false
	}
	expiry, _ := ctx.Value(TokenExpiryCtxKey).(time.Time)
	return tokenID, expiry, true
}
