package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/panshun/climbstory-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleError translates domain errors to HTTP responses. Anything not in
// the taxonomy is a 500 and gets logged with its request context.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var unknownField *domain.UnknownFieldError

	switch {
	case errors.As(err, &unknownField):
		writeError(w, http.StatusBadRequest, unknownField.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
