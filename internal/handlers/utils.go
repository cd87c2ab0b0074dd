package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/linkwave/apiserver/internal/services"
	"github.com/linkwave/apiserver/internal/store"
)

type contextKey string

const contextSubjectKey contextKey = "sub"

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func userIDFromContext(ctx context.Context) (int, error) {
	value := ctx.Value(contextSubjectKey)
	switch subject := value.(type) {
	case int:
		if subject < 1 {
			return 0, errors.New("invalid subject")
		}
		return subject, nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(subject))
		if err != nil || parsed < 1 {
			return 0, errors.New("invalid subject")
		}
		return parsed, nil
	default:
		return 0, errors.New("missing subject")
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service failures onto HTTP statuses. Unexpected
// errors are logged with their cause and surfaced as a generic message.
func writeServiceError(w http.ResponseWriter, err error, notFoundMsg, serverMsg string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, services.ErrEmailTaken.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	default:
		log.Printf("%s: %v", serverMsg, err)
		writeError(w, http.StatusInternalServerError, serverMsg)
	}
}
