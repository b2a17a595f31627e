package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// WriteClassifiedError logs the failure and writes the classified
// (status, body) pair. Every outward-facing error path funnels through
// here so heterogeneous failures keep a stable HTTP contract.
func WriteClassifiedError(w http.ResponseWriter, logger arbor.ILogger, err error) {
	status, body := common.Classify(err)

	logger.Error().
		Err(err).
		Int("status", status).
		Msg("Request failed")

	WriteJSON(w, status, body)
}
