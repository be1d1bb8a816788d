package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
)

type errorBody struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	writeError(w, http.StatusBadRequest, msg)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	writeError(w, http.StatusNotFound, msg)
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	slog.Warn("conflict", "message", msg, "error", err)
	writeError(w, http.StatusConflict, msg)
}

func Unauthorized(w http.ResponseWriter, msg string) {
	slog.Warn("unauthorized", "message", msg)
	writeError(w, http.StatusUnauthorized, msg)
}

func Forbidden(w http.ResponseWriter, msg string) {
	slog.Warn("forbidden", "message", msg)
	writeError(w, http.StatusForbidden, msg)
}

// Error picks the status code for a service error. The bracket sentinels carry their
// explanation in the message, so it is passed on to the client; anything else is a 500.
func Error(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, bracket.ErrNotFound):
		NotFound(w, err.Error(), err)
	case errors.Is(err, bracket.ErrConflict), errors.Is(err, bracket.ErrInvalidTransition):
		Conflict(w, err.Error(), err)
	case errors.Is(err, bracket.ErrInvalidInput):
		BadRequest(w, err.Error(), err)
	default:
		InternalServerError(w, msg, err)
	}
}
