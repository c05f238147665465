package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/iho/runway/internal/adapter/http/dto"
	"github.com/iho/runway/internal/infrastructure/auth"
)

const testSecret = "test-secret"

type recordingAuthObserver struct {
	reasons []string
}

func (o *recordingAuthObserver) ObserveAuthFailure(reason string) {
	o.reasons = append(o.reasons, reason)
}

func newAuthHandler(t *testing.T, observer AuthObserver) http.Handler {
	t.Helper()

	mw := AuthMiddleware(AuthConfig{
		Verifier:  auth.NewJWTManager(testSecret, time.Hour),
		Allowlist: auth.NewAllowlist([]string{" Owner@Example.com "}),
		Observer:  observer,
		Logger:    zerolog.Nop(),
	})

	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		if !ok {
			t.Fatalf("expected user in context")
		}
		_, _ = w.Write([]byte(user.Email))
	}))
}

func signedToken(t *testing.T, secret, email string, expiresAt time.Time) string {
	t.Helper()

	claims := auth.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
		wantReason string
	}{
		{"missing header", "", http.StatusUnauthorized, dto.CodeUnauthorized, AuthReasonMissing},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, dto.CodeUnauthorized, AuthReasonMalformed},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, dto.CodeUnauthorized, AuthReasonInvalid},
		{"wrong secret", "Bearer " + signedToken(t, "other", "owner@example.com", future), http.StatusUnauthorized, dto.CodeUnauthorized, AuthReasonInvalid},
		{"expired", "Bearer " + signedToken(t, testSecret, "owner@example.com", time.Now().Add(-time.Minute)), http.StatusUnauthorized, dto.CodeUnauthorized, AuthReasonExpired},
		{"not allowlisted", "Bearer " + signedToken(t, testSecret, "intruder@example.com", future), http.StatusForbidden, dto.CodeForbidden, AuthReasonForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &recordingAuthObserver{}
			h := newAuthHandler(t, observer)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}

			var env struct {
				Data  any          `json:"data"`
				Error dto.APIError `json:"error"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if env.Error.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, env.Error.Code)
			}
			if len(observer.reasons) != 1 || observer.reasons[0] != tt.wantReason {
				t.Fatalf("expected reason %s, got %v", tt.wantReason, observer.reasons)
			}
		})
	}
}

func TestAuthMiddleware_AllowsListedEmailCaseInsensitively(t *testing.T) {
	h := newAuthHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, testSecret, "OWNER@example.com", time.Now().Add(time.Hour)))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Body.String() != "owner@example.com" {
		t.Fatalf("expected normalized email in context, got %q", rr.Body.String())
	}
}
