package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sanalover24/Expense-Tracker/internal/auth"
	"github.com/sanalover24/Expense-Tracker/internal/core"
	"github.com/sanalover24/Expense-Tracker/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		// Internal details stay out of the response body.
		writeJSON(w, status, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP status codes: validation failures
// are 422, duplicates 409, missing rows 404, identity problems 401, and
// backing-store failures 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotSignedIn),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrSessionExpired):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, sql.ErrNoRows):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicateCategory),
		errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict

	case errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrZeroDate),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrNoteTooLong),
		errors.Is(err, core.ErrNameTooLong),
		errors.Is(err, store.ErrCategoryKindImmutable),
		errors.Is(err, auth.ErrEmptyUsername),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusUnprocessableEntity
	}

	var se *store.StorageError
	if errors.As(err, &se) {
		return http.StatusInternalServerError
	}
	var pe *parseError
	if errors.As(err, &pe) {
		return pe.status
	}
	return http.StatusInternalServerError
}

// parseError carries a status decided at parse time, usually 400.
type parseError struct {
	status int
	msg    string
}

func (e *parseError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &parseError{status: http.StatusBadRequest, msg: msg}
}

func unprocessable(msg string) error {
	return &parseError{status: http.StatusUnprocessableEntity, msg: msg}
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, store.ErrNotFound)
}
