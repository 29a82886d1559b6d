// Package middleware provides the HTTP authentication middleware that guards
// protected routes and the context helpers handlers use to read the caller's
// identity.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"trainerhub/backend/internal/security"
	"trainerhub/backend/internal/token/service"
)

const bearerPrefix = "bearer "

// Machine-readable discriminators carried in 401/403 bodies so clients can
// distinguish "refresh and retry" from "re-authenticate".
const (
	CodeTokenRequired      = "TOKEN_REQUIRED"
	CodeInvalidTokenFormat = "INVALID_TOKEN_FORMAT"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenRevoked       = "TOKEN_REVOKED"
	CodeForbidden          = "FORBIDDEN"
)

// AccessVerifier verifies a raw access token and returns its claims.
type AccessVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*security.AccessClaims, error)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Authenticate returns middleware that requires a valid Bearer access token.
// On success the claims are attached to the request context; on failure the
// request is answered with 401 and a machine-readable code.
func Authenticate(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				writeError(w, http.StatusUnauthorized, "access token required", CodeTokenRequired)
				return
			}
			token, ok := extractBearer(header)
			if !ok {
				writeError(w, http.StatusUnauthorized, "authorization header must be 'Bearer <token>'", CodeInvalidTokenFormat)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, security.ErrTokenExpired):
					writeError(w, http.StatusUnauthorized, "access token expired", CodeTokenExpired)
				case errors.Is(err, service.ErrTokenRevoked):
					writeError(w, http.StatusUnauthorized, "access token revoked", CodeTokenRevoked)
				default:
					writeError(w, http.StatusUnauthorized, "invalid access token", CodeInvalidToken)
				}
				return
			}

			ctx := WithIdentity(r.Context(), claims.Subject, claims.Email, claims.Role, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that rejects authenticated callers whose
// role claim is not one of roles. It must run after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRole(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "access token required", CodeTokenRequired)
				return
			}
			if !allowed[role] {
				writeError(w, http.StatusForbidden, "insufficient role", CodeForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractBearer returns the token from an Authorization header value, or
// false if the value is not a Bearer credential.
func extractBearer(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" || strings.ContainsRune(token, ' ') {
		return "", false
	}
	return token, true
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{Error: msg, Code: code}); err != nil {
		log.Debug().Err(err).Msg("failed to write auth error response")
	}
}
