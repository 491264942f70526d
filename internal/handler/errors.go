package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorResponse is the JSON error envelope every non-2xx response carries.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail holds a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes the standard error envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// respondValidationError writes a 422 with the human-readable part of a
// wrapped domain.ErrValidation error.
func respondValidationError(w http.ResponseWriter, err error) {
	respondError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.ProfileService.Update: validation error: name is required"
// → "name is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		if tail := msg[i+2:]; tail != "" && tail != "validation error" {
			// Strip the "layer.Type.Method:" and sentinel prefixes, keeping
			// only the final detail clause.
			return tail
		}
	}
	return msg
}
