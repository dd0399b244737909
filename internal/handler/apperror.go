package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidAdminKey  = &AppError{http.StatusUnauthorized, "INVALID_ADMIN_KEY", "X-Admin-Key header is missing or wrong"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrAccountNotFound       = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Investor has no account"}
	ErrFundNotFound          = &AppError{http.StatusNotFound, "FUND_NOT_FOUND", "Fund not found"}
	ErrHoldingNotFound       = &AppError{http.StatusNotFound, "HOLDING_NOT_FOUND", "Investor holds no units of this fund"}
	ErrInsufficientFunds     = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient wallet balance"}
	ErrInsufficientUnits     = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_UNITS", "Insufficient units held"}
	ErrDataIntegrity         = &AppError{http.StatusInternalServerError, "DATA_INTEGRITY", "Stored data failed an integrity check"}
	ErrAccountExists         = &AppError{http.StatusConflict, "ACCOUNT_ALREADY_EXISTS", "Account already exists for this investor"}
	ErrFundExists            = &AppError{http.StatusConflict, "FUND_ALREADY_EXISTS", "A fund with this ticker or name already exists"}
	ErrFundHasHoldings       = &AppError{http.StatusConflict, "FUND_HAS_HOLDINGS", "Fund still has investor holdings"}
	ErrVersionConflict       = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
	ErrIdempotencyInProgress = &AppError{http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS", "A request with this Idempotency-Key is still being processed"}
	ErrInvalidAmount         = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero with at most 4 decimal places"}
)
