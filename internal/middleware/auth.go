package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ledger/internal/auth"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	userKey   contextKey = "user"
)

// TokenCookie is the cookie login sets and Auth falls back to.
const TokenCookie = "token"

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

// Auth accepts a bearer token or, failing that, the token cookie.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				deny(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}
			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					deny(w, http.StatusUnauthorized, "Token expired")
					return
				}
				deny(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
