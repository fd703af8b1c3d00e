package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/logger"
	"inventrack-backend/internal/security"
)

// envelope is the uniform JSON response shape.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("response encoding failed", "error", err)
	}
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

// respondError maps the domain error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is an infrastructure failure: logged in
// full, reported generically.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken):
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "authentication required"})
	case errors.Is(err, domain.ErrAccountDisabled):
		writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: "insufficient permissions"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "not found"})
	case errors.Is(err, domain.ErrDuplicateKey),
		errors.Is(err, domain.ErrResourceInUse),
		errors.Is(err, domain.ErrInvalidStateTransition),
		errors.Is(err, domain.ErrInsufficientQuantity):
		writeJSON(w, http.StatusConflict, envelope{Success: false, Message: err.Error()})
	default:
		logger.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "internal server error"})
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Validationf("invalid request body")
	}
	return nil
}
