package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"

	"ledger/internal/models"
)

type UserLookup interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
}

// RequireUser rejects tokens whose user no longer exists and stores the loaded
// user in the request context. It must run after Auth.
func RequireUser(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					deny(w, http.StatusUnauthorized, "Invalid token. User not found.")
					return
				}
				log.Printf("load user %s: %v", userID, err)
				deny(w, http.StatusInternalServerError, "Server error")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}
