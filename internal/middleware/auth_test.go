package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-backend/internal/auth"
	"mall-backend/internal/config"
	"mall-backend/internal/models"
)

type fakeUserLoader map[int]*models.User

func (f fakeUserLoader) Get(ctx context.Context, id int) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, context.Canceled
}

func newTestAuth(t *testing.T, users fakeUserLoader) (*AuthMiddleware, *auth.JWTManager) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "mall-backend"
	jwtManager := auth.NewJWTManager(cfg)
	return NewAuthMiddleware(jwtManager, users), jwtManager
}

func echoIdentity(t *testing.T, gotUser, gotMall *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		*gotUser = id
		if mallID, ok := GetMallIDFromContext(r.Context()); ok {
			*gotMall = mallID
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	mallID := 3
	owner := &models.User{ID: 7, Email: "owner@example.com", Role: models.RoleMallOwner, MallID: &mallID}
	m, jwtManager := newTestAuth(t, fakeUserLoader{7: owner})

	token, err := jwtManager.GenerateToken(owner)
	require.NoError(t, err)

	var gotUser, gotMall int
	handler := m.Authenticate(echoIdentity(t, &gotUser, &gotMall))

	req := httptest.NewRequest(http.MethodGet, "/api/account/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, gotUser)
	assert.Equal(t, 3, gotMall)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	m, _ := newTestAuth(t, fakeUserLoader{})
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := []struct{ name, header string }{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not.a.token"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, c.name)
	}
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	m, jwtManager := newTestAuth(t, fakeUserLoader{})
	token, err := jwtManager.GenerateToken(&models.User{ID: 9})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tenant := &models.User{ID: 20, Role: models.RoleTenant}
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	m, jwtManager := newTestAuth(t, fakeUserLoader{20: tenant, 1: admin})

	guard := m.RequireRole(models.RoleMallOwner, models.RoleAdmin)
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(u *models.User) int {
		token, err := jwtManager.GenerateToken(u)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, do(tenant))
	assert.Equal(t, http.StatusOK, do(admin))
}

// Promotion during a session takes effect immediately: the middleware
// trusts the reloaded user's role, not the token's.
func TestRoleReloadedPerRequest(t *testing.T) {
	user := &models.User{ID: 20, Role: models.RoleUser}
	m, jwtManager := newTestAuth(t, fakeUserLoader{20: user})

	token, err := jwtManager.GenerateToken(user)
	require.NoError(t, err)

	guard := m.RequireRole(models.RoleTenant)
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/rents/mine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, user.Promote(models.RoleTenant))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
