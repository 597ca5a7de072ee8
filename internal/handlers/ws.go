package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"ledger/internal/auth"
	"ledger/internal/middleware"
	"ledger/internal/websocket"

	"github.com/golang-jwt/jwt/v5"
)

// WSBalances streams balance updates for the caller's accounts. Browsers cannot
// set headers on a websocket handshake, so the token may come as ?token=.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = middleware.TokenFromRequest(r)
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			respondError(w, http.StatusUnauthorized, "Token expired")
			return
		}
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if _, err := h.users.GetByID(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "Invalid token. User not found.")
			return
		}
		log.Printf("load user %s: %v", claims.UserID, err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	websocket.ServeWS(w, r, h.upgrader, h.hub, claims.UserID)
}
