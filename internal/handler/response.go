package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
	"github.com/josh-kwaku/fund-ledger/internal/logging"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError maps a service error onto its HTTP shape. Anything that
// is not an expected business outcome is logged at error level.
func RespondDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := mapDomainError(err)
	log := logging.FromContext(ctx)
	if appErr.Status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err, "code", appErr.Code)
	} else {
		log.Debug("request rejected", "error", err, "code", appErr.Code)
	}
	RespondAppError(w, appErr, nil)
}

func mapDomainError(err error) *AppError {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, domain.ErrFundNotFound):
		return ErrFundNotFound
	case errors.Is(err, domain.ErrHoldingNotFound):
		return ErrHoldingNotFound
	case errors.Is(err, domain.ErrNotFound):
		return ErrResourceNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return ErrInsufficientFunds
	case errors.Is(err, domain.ErrInsufficientUnits):
		return ErrInsufficientUnits
	case errors.Is(err, domain.ErrDataIntegrity):
		return ErrDataIntegrity
	case errors.Is(err, domain.ErrAccountExists):
		return ErrAccountExists
	case errors.Is(err, domain.ErrFundExists):
		return ErrFundExists
	case errors.Is(err, domain.ErrFundHasHoldings):
		return ErrFundHasHoldings
	case errors.Is(err, domain.ErrVersionConflict):
		return ErrVersionConflict
	case errors.Is(err, domain.ErrInvalidAmount):
		return ErrInvalidAmount
	case errors.Is(err, domain.ErrInvalidRequest):
		return ErrInvalidRequest
	default:
		return ErrInternalError
	}
}
