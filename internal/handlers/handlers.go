package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"ledger/internal/money"
	"ledger/internal/services"

	"github.com/shopspring/decimal"
)

type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   bool   `json:"error"`
	Success bool   `json:"success"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondSuccess(w http.ResponseWriter, status int, message string, data any) {
	respondJSON(w, status, envelope{Message: message, Data: data, Success: true})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Message: message, Error: true})
}

// respondServiceError maps a service error kind to its status. Only unexpected
// failures are logged.
func respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondError(w, http.StatusBadRequest, services.Message(err))
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, services.Message(err))
	case errors.Is(err, services.ErrConflict):
		respondError(w, http.StatusConflict, services.Message(err))
	default:
		log.Printf("%s: %v", op, err)
		respondError(w, http.StatusInternalServerError, "Server error")
	}
}

func decodeJSON(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

var errInvalidDate = errors.New("invalid date, use YYYY-MM-DD or RFC3339")

// parseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates (UTC
// midnight). An empty value yields nil.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errInvalidDate
	}
	return &parsed, nil
}

// parseAmount converts a decoded amount to minor units. A nil amount stays nil.
func parseAmount(amount *decimal.Decimal) (*int64, error) {
	if amount == nil {
		return nil, nil
	}
	minor, err := money.FromDecimal(*amount)
	if err != nil {
		return nil, err
	}
	return &minor, nil
}
