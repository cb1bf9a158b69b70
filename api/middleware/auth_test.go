package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbhouse/bakery-backend/pkg/auth"
	"github.com/crumbhouse/bakery-backend/pkg/config"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "bakery", ExpirationMinutes: 60}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, role enums.StaffRole) string {
	t.Helper()
	token, err := auth.MintStaffToken(cfg, time.Now(), auth.StaffTokenPayload{StaffID: "maria", Role: role})
	require.NoError(t, err)
	return token
}

func guarded(cfg config.JWTConfig, roles ...enums.StaffRole) (http.Handler, *struct {
	staff string
	role  enums.StaffRole
}) {
	captured := &struct {
		staff string
		role  enums.StaffRole
	}{}
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.staff = StaffIDFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return StaffAuth(cfg, nil)(RequireRole(cfg, nil, roles...)(final)), captured
}

func TestStaffAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	handler, _ := guarded(jwtConfig(), enums.StaffRoleAdmin, enums.StaffRoleStaff)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestStaffAuthAllowsValidToken(t *testing.T) {
	cfg := jwtConfig()
	handler, captured := guarded(cfg, enums.StaffRoleAdmin, enums.StaffRoleStaff)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, enums.StaffRoleStaff))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "maria", captured.staff)
	assert.Equal(t, enums.StaffRoleStaff, captured.role)
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	cfg := jwtConfig()
	handler, _ := guarded(cfg, enums.StaffRoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, enums.StaffRoleStaff))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestGuardDisabledWithoutSecret(t *testing.T) {
	handler, captured := guarded(config.JWTConfig{}, enums.StaffRoleAdmin)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, captured.staff)
}
