// Package respond writes JSON bodies and maps engine errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
)

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// Status returns the HTTP status for an engine error.
func Status(err error) int {
	switch {
	case errors.Is(err, finance.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, finance.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, finance.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "error", err)
	}

	http.Error(w, err.Error(), status)
}
