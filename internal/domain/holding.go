package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding is an investor's position in one fund. A stored holding always has
// UnitsOwned > 0; an emptied position is deleted rather than kept at zero.
type Holding struct {
	ID              uuid.UUID
	InvestorID      uuid.UUID
	FundID          uuid.UUID
	UnitsOwned      decimal.Decimal
	AverageBuyPrice decimal.Decimal
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HoldingValuation is a holding priced at its fund's current NAV.
type HoldingValuation struct {
	Holding
	FundName       string
	Ticker         string
	CurrentNav     decimal.Decimal
	CostBasis      decimal.Decimal
	MarketValue    decimal.Decimal
	UnrealizedGain decimal.Decimal
}
