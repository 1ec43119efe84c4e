package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour)
	raw, err := issuer.GenerateToken("user-1", "student")
	require.NoError(t, err)

	token, err := issuer.JWTAuth().Decode(raw)
	require.NoError(t, err)
	claims, err := token.AsMap(t.Context())
	require.NoError(t, err)

	id, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	role, err := GetUserRoleFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "student", role)

	jti, err := GetTokenIDFromClaims(claims)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	exp, err := GetExpiryFromClaims(claims)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	other, err := issuer.GenerateToken("user-1", "student")
	require.NoError(t, err)
	otherToken, err := issuer.JWTAuth().Decode(other)
	require.NoError(t, err)
	assert.NotEqual(t, token.JwtID(), otherToken.JwtID())
}

func TestDecodeRejectsForeignSignature(t *testing.T) {
	raw, err := NewTokenIssuer([]byte("a"), time.Hour).GenerateToken("u", "teacher")
	require.NoError(t, err)
	_, err = NewTokenIssuer([]byte("b"), time.Hour).JWTAuth().Decode(raw)
	assert.Error(t, err)
}

func TestClaimHelpersRejectMissingValues(t *testing.T) {
	claims := map[string]any{"user_id": 7}
	_, err := GetUserIDFromClaims(claims)
	assert.Error(t, err)
	_, err = GetUserRoleFromClaims(claims)
	assert.Error(t, err)
	_, err = GetTokenIDFromClaims(claims)
	assert.Error(t, err)
	_, err = GetExpiryFromClaims(claims)
	assert.Error(t, err)

	exp, err := GetExpiryFromClaims(map[string]any{"exp": float64(1700000000)})
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), exp.Unix())
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}
