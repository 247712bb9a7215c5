package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/logger"
	"rentstack-backend/internal/security"
	"rentstack-backend/internal/service"
)

type errorResponse struct {
	Error       string `json:"error"`
	Kind        string `json:"kind,omitempty"`
	Field       string `json:"field,omitempty"`
	Recoverable bool   `json:"recoverable,omitempty"`
	Retryable   bool   `json:"retryable,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

// respondError maps an error onto an HTTP status and a safe message.
// Business errors keep their kind and payload; everything else collapses to
// a generic message so internals never leak.
func respondError(w http.ResponseWriter, err error) {
	if e, ok := domain.AsError(err); ok {
		message := e.Message
		if !e.CustomerDisplayable() {
			message = "the request could not be processed"
		}
		respondJSON(w, statusForCategory(e.Category), errorResponse{
			Error:       message,
			Kind:        string(e.Kind),
			Field:       e.Field,
			Recoverable: e.Recoverable(),
			Retryable:   e.Retryable(),
		})
		return
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func statusForCategory(cat domain.ErrorCategory) int {
	switch cat {
	case domain.ErrorCategoryValidation:
		return http.StatusBadRequest
	case domain.ErrorCategoryInventory, domain.ErrorCategoryState:
		return http.StatusConflict
	case domain.ErrorCategoryPayment:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
