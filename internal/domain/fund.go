package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FundCategory string

const (
	FundCategoryEquity FundCategory = "EQUITY"
	FundCategoryDebt   FundCategory = "DEBT"
	FundCategoryHybrid FundCategory = "HYBRID"
	FundCategoryELSS   FundCategory = "ELSS"
)

func (c FundCategory) IsValid() bool {
	switch c {
	case FundCategoryEquity, FundCategoryDebt, FundCategoryHybrid, FundCategoryELSS:
		return true
	}
	return false
}

// ParseFundCategory accepts any letter case.
func ParseFundCategory(s string) (FundCategory, bool) {
	c := FundCategory(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.IsValid()
}

type Fund struct {
	ID            uuid.UUID
	Name          string
	Ticker        string
	Category      FundCategory
	RiskRating    int
	ExpenseRatio  decimal.Decimal
	CurrentNav    decimal.Decimal
	FundManager   string
	Description   string
	MinInvestment decimal.Decimal
	CreatedAt     time.Time
}

// ReferenceID tags ledger entries with the fund they touched. It is built
// from the ID because the ticker can be changed by an update.
func (f *Fund) ReferenceID() string {
	return "FUND-" + f.ID.String()
}

// Expense ratios are stored as NUMERIC(5,2).
const ExpenseRatioScale int32 = 2

var maxExpenseRatio = decimal.NewFromInt(1000)

// ValidExpenseRatio reports whether d is in [0, 1000) with at most two decimal places.
func ValidExpenseRatio(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(maxExpenseRatio) && d.Equal(d.Round(ExpenseRatioScale))
}

// PricePoint is one day's NAV for a fund. A fund has at most one point per date.
type PricePoint struct {
	Date  time.Time
	Price decimal.Decimal
}

type FundFilter struct {
	Category *FundCategory
	MaxRisk  *int
}
