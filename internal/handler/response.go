// Package handler contains the HTTP layer: request parsing, response
// shaping and the mapping from domain errors to status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arenax/arenax-api/internal/apperror"
)

// ErrorResponse is the uniform error body. Every error answer carries a
// short machine-usable "error" string; Detail appears only in development
// mode so internals never leak from a production deployment.
type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be set before the body — Encode writes immediately.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into an HTTP response. The service
// layer returns errors wrapping apperror sentinels; anything unrecognized
// becomes a generic 500.
func writeError(w http.ResponseWriter, err error, dev bool) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	field := ""

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		field = appErr.Field

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrUpstream):
			// Upstream failures answer 500 with the AppError's generic
			// provider-unavailable message; the wrapped cause stays in logs.
			status = http.StatusInternalServerError
		default:
			status = http.StatusInternalServerError
			message = "Internal server error"
		}
	}

	resp := ErrorResponse{Error: message, Field: field}
	if dev && status == http.StatusInternalServerError {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

// decodeJSON parses a request body into dst, answering 400 on malformed
// input. Returns false when the request was already answered.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}
