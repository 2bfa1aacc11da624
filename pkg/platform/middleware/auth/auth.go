// Package auth provides JWT bearer authentication middleware for operator
// endpoints (audit export, verification). The adjudication surface itself is
// typically fronted by an API gateway; this middleware guards the admin paths.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "arbiter/pkg/domain-errors"
	"arbiter/pkg/platform/httputil"
	"arbiter/pkg/requestcontext"
)

// Verifier validates bearer tokens and returns the authenticated subject.
type Verifier struct {
	signingKey []byte
	logger     *slog.Logger
}

// NewVerifier creates a verifier for HMAC-signed tokens.
func NewVerifier(signingKey []byte, logger *slog.Logger) *Verifier {
	return &Verifier{signingKey: signingKey, logger: logger}
}

// Middleware rejects requests without a valid bearer token and stores the
// token subject in the request context.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
			return
		}

		subject, err := v.verify(raw)
		if err != nil {
			if v.logger != nil {
				v.logger.DebugContext(r.Context(), "token rejected", "error", err)
			}
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
			return
		}

		ctx := requestcontext.WithSubject(r.Context(), subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (v *Verifier) verify(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("token invalid")
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("subject claim: %w", err)
	}
	return subject, nil
}
