package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/meetpoint/internal/middleware"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

// identityHandler echoes the resolved user id, or "anonymous".
var identityHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if id, ok := middleware.UserIDFromContext(r.Context()); ok {
		_, _ = w.Write([]byte(id))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func serveWithAuth(secret, authorization string) *httptest.ResponseRecorder {
	h := middleware.NewAuthenticator(secret)(identityHandler)
	req := httptest.NewRequest(http.MethodGet, "/me/meetings", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator_NoHeader_IsAnonymous(t *testing.T) {
	rec := serveWithAuth(testSecret, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestAuthenticator_ValidToken_SetsUserID(t *testing.T) {
	rec := serveWithAuth(testSecret, "Bearer "+signToken(t, testSecret, validClaims("user-42")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())
}

func TestAuthenticator_RejectsBadTokens(t *testing.T) {
	expired := validClaims("user-42")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := jwt.RegisteredClaims{Subject: "user-42"}

	cases := map[string]string{
		"wrong secret":  "Bearer " + signToken(t, "other", validClaims("user-42")),
		"expired":       "Bearer " + signToken(t, testSecret, expired),
		"no expiry":     "Bearer " + signToken(t, testSecret, noExpiry),
		"no subject":    "Bearer " + signToken(t, testSecret, validClaims("")),
		"garbage":       "Bearer not-a-jwt",
		"wrong scheme":  "Basic dXNlcjpwYXNz",
		"missing token": "Bearer",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serveWithAuth(testSecret, header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"unauthenticated"`)
		})
	}
}

func TestAuthenticator_RejectsOtherAlgorithms(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, validClaims("user-42")).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := serveWithAuth(testSecret, "Bearer "+tok)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_EmptySecret_IgnoresHeader(t *testing.T) {
	rec := serveWithAuth("", "Bearer "+signToken(t, testSecret, validClaims("user-42")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequireUser(t *testing.T) {
	h := middleware.NewAuthenticator(testSecret)(middleware.RequireUser(identityHandler))

	anon := httptest.NewRecorder()
	h.ServeHTTP(anon, httptest.NewRequest(http.MethodGet, "/me/meetings", nil))
	assert.Equal(t, http.StatusUnauthorized, anon.Code)
	assert.NotEmpty(t, anon.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/me/meetings", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims("user-42")))
	authed := httptest.NewRecorder()
	h.ServeHTTP(authed, req)
	assert.Equal(t, http.StatusOK, authed.Code)
	assert.Equal(t, "user-42", authed.Body.String())
}
