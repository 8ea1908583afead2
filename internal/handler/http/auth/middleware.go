// Package auth provides optional bearer-token authentication for the HTTP API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"smartnotes/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxUser ctxKey = "user"

// Authz returns a middleware that requires an HS256 bearer token on
// protected endpoints. With an empty secret authentication is disabled
// and every request passes through.
//
// Tokens must carry a string "sub" claim and an unexpired "exp" claim.
func Authz(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(secret) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsProtectedEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			user, err := validateJWT(r.Header.Get("Authorization"), secret, time.Now())
			RecordAuthDuration(time.Since(start).Seconds())
			if err != nil {
				RecordAuthRequest("failure")
				slog.Default().Warn("authentication failed",
					slog.String("path", r.URL.Path),
					slog.String("reason", err.Error()))
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}
			RecordAuthRequest("success")

			ctx := context.WithValue(r.Context(), ctxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated subject, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(ctxUser).(string)
	return user, ok
}

func validateJWT(authz string, secret []byte, now time.Time) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return "", errors.New("missing bearer token")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authz, prefix))

	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil || !tok.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	// jwt.Parse accepts tokens without exp, so it is checked explicitly.
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < now.Unix() {
		return "", errors.New("token expired")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("invalid sub claim")
	}
	return sub, nil
}
