package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is an investor's cash wallet. WalletBalance never goes below zero.
// The risk profile starts as an unscored MODERATE until the investor submits
// a questionnaire.
type Account struct {
	ID                uuid.UUID
	InvestorID        uuid.UUID
	WalletBalance     decimal.Decimal
	RiskScore         int
	RiskCategory      RiskCategory
	InvestmentHorizon string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
