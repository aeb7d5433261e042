package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-backend/internal/config"
	"mall-backend/internal/models"
)

func newTestManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "mall-backend"
	return NewJWTManager(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager("test-secret")
	mallID := 3
	user := &models.User{ID: 7, Email: "owner@example.com", Role: models.RoleMallOwner, MallID: &mallID}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, models.RoleMallOwner, claims.Role)
	assert.Equal(t, 3, claims.MallID)
	assert.Equal(t, "mall-backend", claims.Issuer)
}

func TestTokenWithoutMall(t *testing.T) {
	m := newTestManager("test-secret")
	token, err := m.GenerateToken(&models.User{ID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 0, claims.MallID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := newTestManager("secret-a").GenerateToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = newTestManager("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newTestManager("test-secret").ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestTempTokenIsNotASessionToken(t *testing.T) {
	m := newTestManager("test-secret")
	user := &models.User{ID: 7, Email: "owner@example.com"}

	temp, err := m.GenerateTempToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateTempToken(temp)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "2fa_pending", claims.Type)

	// A full session token must not pass the temp check: its type claim
	// is empty.
	session, err := m.GenerateToken(user)
	require.NoError(t, err)
	_, err = m.ValidateTempToken(session)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cret-pass"))

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
