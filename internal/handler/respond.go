package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusshare/campusshare/internal/service"
)

// ActionResult is the JSON body of every mutating endpoint.
type ActionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

const genericError = "Something went wrong. Please try again."

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, ActionResult{Success: true, Data: data})
}

// writeActionError maps a service error onto a status and a message the
// user may see. Store failures are logged here and reported generically.
func writeActionError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	message := err.Error()
	if !service.IsUserFacing(err) {
		slog.Error("action failed", "error", err, "method", r.Method, "path", r.URL.Path)
		message = genericError
	}
	writeJSON(w, status, ActionResult{Error: message})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAuthorized), errors.Is(err, service.ErrProfileRequired):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
