package api

import (
	"encoding/json"
	"net/http"

	"github.com/undangapp/undang/internal/invitation"
)

// ErrorResponse is the standard JSON error body for all API failures.
type ErrorResponse struct {
	Error       string            `json:"error"`
	Code        string            `json:"code"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// writeFieldErrors writes a 400 response carrying the full set of
// dotted-path validation failures.
func writeFieldErrors(w http.ResponseWriter, fe invitation.FieldErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:       "validation failed",
		Code:        "VALIDATION_FAILED",
		FieldErrors: fe,
	})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
