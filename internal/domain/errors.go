package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidAmount     = errors.New("amount must be greater than zero with at most 4 decimal places")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientUnits = errors.New("insufficient units")
	ErrDataIntegrity     = errors.New("data integrity violation")
	ErrVersionConflict   = errors.New("optimistic lock conflict")
	ErrAccountExists     = errors.New("account already exists for this investor")
	ErrFundExists        = errors.New("fund with this ticker already exists")
	ErrFundHasHoldings   = errors.New("fund still has investor holdings")
	ErrInvalidRequest    = errors.New("invalid request")

	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	ErrFundNotFound    = fmt.Errorf("fund %w", ErrNotFound)
	ErrHoldingNotFound = fmt.Errorf("holding %w", ErrNotFound)
)
