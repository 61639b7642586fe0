package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"directory-app-go/internal/config"
	"directory-app-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(role string) Claims {
	return Claims{
		Email: "admin@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "identity",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func protectedHandler(auth *Auth) http.Handler {
	return auth.Middleware(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]string{"id": user.ID, "role": user.Role})
	})))
}

func serve(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthAdminAllowed(t *testing.T) {
	auth := NewAuth(config.AuthConfig{JWTSecret: testSecret, JWTIssuer: "identity"}, logger.Nop())

	rec := serve(protectedHandler(auth), signToken(t, testSecret, validClaims("admin")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["id"])
	assert.Equal(t, RoleAdmin, body["role"])
}

func TestAuthRejections(t *testing.T) {
	auth := NewAuth(config.AuthConfig{JWTSecret: testSecret, JWTIssuer: "identity"}, logger.Nop())
	handler := protectedHandler(auth)

	expired := validClaims(RoleAdmin)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims(RoleAdmin)
	wrongIssuer.Issuer = "someone-else"

	noSubject := validClaims(RoleAdmin)
	noSubject.Subject = ""

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", signToken(t, "other", validClaims(RoleAdmin)), http.StatusUnauthorized},
		{"expired", signToken(t, testSecret, expired), http.StatusUnauthorized},
		{"wrong issuer", signToken(t, testSecret, wrongIssuer), http.StatusUnauthorized},
		{"no subject", signToken(t, testSecret, noSubject), http.StatusUnauthorized},
		{"not admin", signToken(t, testSecret, validClaims("member")), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(handler, tc.token)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestAuthRejectsNoneAlgorithm(t *testing.T) {
	auth := NewAuth(config.AuthConfig{JWTSecret: testSecret}, logger.Nop())

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims(RoleAdmin)).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	rec := serve(protectedHandler(auth), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSkipUsesMockUser(t *testing.T) {
	auth := NewAuth(config.AuthConfig{SkipAuth: true, MockUserID: "dev", MockUserRole: "admin"}, logger.Nop())

	rec := serve(protectedHandler(auth), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"dev"`)
}

func TestAuthNotConfigured(t *testing.T) {
	auth := NewAuth(config.AuthConfig{}, logger.Nop())

	rec := serve(protectedHandler(auth), "anything")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth_not_configured")
}
