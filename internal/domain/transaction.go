package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeBuy     TransactionType = "BUY"
	TransactionTypeSell    TransactionType = "SELL"
	TransactionTypeDeposit TransactionType = "DEPOSIT"
	TransactionTypeFee     TransactionType = "FEE"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeBuy, TransactionTypeSell, TransactionTypeDeposit, TransactionTypeFee:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSuccess, TransactionStatusFailed:
		return true
	}
	return false
}

// LedgerTransaction is an append-only audit record. FundID is nil for wallet-only
// operations (deposits, fees); Units is zero for them.
type LedgerTransaction struct {
	ID          uuid.UUID
	InvestorID  uuid.UUID
	FundID      *uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Units       decimal.Decimal
	Status      TransactionStatus
	ReferenceID *string
	Description string
	CreatedAt   time.Time
}
