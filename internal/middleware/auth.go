package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying userID as the caller identity.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the caller identity placed by NewAuthenticator.
// ok is false for anonymous requests.
func UserIDFromContext(ctx context.Context) (userID string, ok bool) {
	userID, ok = ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}

// NewAuthenticator returns a middleware that resolves an optional
// "Authorization: Bearer <jwt>" header into a user id.
//
// Tokens must be HS256-signed with secret and carry a non-empty "sub" claim,
// which becomes the user id. Requests without the header continue anonymously.
// A header that is present but malformed, expired or badly signed is rejected
// with 401 so clients notice stale tokens instead of silently losing identity.
//
// An empty secret disables verification: every request is treated as anonymous.
func NewAuthenticator(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, present := bearerToken(r)
			if !present || len(key) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			var claims jwt.RegisteredClaims
			_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return key, nil
			})
			if err == nil && claims.Subject == "" {
				err = errors.New("token has no subject")
			}
			if err != nil {
				writeUnauthenticated(w, "invalid bearer token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		})
	}
}

// RequireUser rejects anonymous requests with 401. Wire it after NewAuthenticator.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			writeUnauthenticated(w, "a bearer token is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// writeUnauthenticated writes the API error envelope with a 401 status.
func writeUnauthenticated(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="meetpoint"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "unauthenticated", "message": msg},
	})
}
