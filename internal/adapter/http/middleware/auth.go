package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/runway/internal/adapter/http/dto"
	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// UserContextKey is the context key for the authenticated user
	UserContextKey ContextKey = "user"
)

// Auth failure reasons reported to the observer.
const (
	AuthReasonMissing   = "missing"
	AuthReasonMalformed = "malformed"
	AuthReasonExpired   = "expired"
	AuthReasonInvalid   = "invalid"
	AuthReasonForbidden = "forbidden"
)

// TokenVerifier verifies a bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// EmailAllowlist decides whether an authenticated email may use the API.
type EmailAllowlist interface {
	Allows(email string) bool
}

// AuthObserver is notified of every rejected request.
type AuthObserver interface {
	ObserveAuthFailure(reason string)
}

// User is the authenticated caller.
type User struct {
	Email string
	Name  string
}

// AuthConfig holds the dependencies of AuthMiddleware. Observer may be nil.
type AuthConfig struct {
	Verifier  TokenVerifier
	Allowlist EmailAllowlist
	Observer  AuthObserver
	Logger    zerolog.Logger
}

// AuthMiddleware requires a valid bearer token whose email is allowlisted.
// Invalid or missing tokens get 401, valid tokens for other emails get 403.
func AuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, r *http.Request, reason string) {
		if cfg.Observer != nil {
			cfg.Observer.ObserveAuthFailure(reason)
		}
		cfg.Logger.Warn().
			Str("reason", reason).
			Str("path", r.URL.Path).
			Msg("request rejected")

		if reason == AuthReasonForbidden {
			writeError(w, http.StatusForbidden, dto.CodeForbidden, "Email is not allowed.")
			return
		}
		writeError(w, http.StatusUnauthorized, dto.CodeUnauthorized, "Authentication required.")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject(w, r, AuthReasonMissing)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				reject(w, r, AuthReasonMalformed)
				return
			}

			claims, err := cfg.Verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrExpiredToken) {
					reject(w, r, AuthReasonExpired)
				} else {
					reject(w, r, AuthReasonInvalid)
				}
				return
			}

			email := strings.ToLower(strings.TrimSpace(claims.Email))
			if !cfg.Allowlist.Allows(email) {
				reject(w, r, AuthReasonForbidden)
				return
			}

			user := &User{Email: email, Name: claims.Name}
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated user from context
func GetUserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(UserContextKey).(*User)
	return user, ok
}
