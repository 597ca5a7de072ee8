package middleware

import (
	"encoding/json"
	"net/http"
)

// deny writes the same envelope the handlers use for failures.
func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": message,
		"error":   true,
		"success": false,
	})
}
