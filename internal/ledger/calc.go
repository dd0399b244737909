package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
)

// quoteNav returns the fund's NAV, rejecting non-positive prices as corrupt data.
func quoteNav(f *domain.Fund) (decimal.Decimal, error) {
	if !f.CurrentNav.IsPositive() {
		return decimal.Zero, fmt.Errorf("fund %s has non-positive nav %s: %w", f.Ticker, f.CurrentNav, domain.ErrDataIntegrity)
	}
	return f.CurrentNav, nil
}

// unitsFor converts a currency amount to fund units at nav, rounded half-up
// to domain.Scale places.
func unitsFor(amount, nav decimal.Decimal) decimal.Decimal {
	return amount.DivRound(nav, domain.Scale)
}

// weightedAverage folds a purchase of units at nav into an existing position
// of oldUnits at oldAvg.
func weightedAverage(oldUnits, oldAvg, units, nav decimal.Decimal) (decimal.Decimal, error) {
	total := oldUnits.Add(units)
	if !total.IsPositive() {
		return decimal.Zero, fmt.Errorf("weightedAverage: total units %s: %w", total, domain.ErrDataIntegrity)
	}
	cost := oldUnits.Mul(oldAvg).Add(units.Mul(nav))
	return cost.DivRound(total, domain.Scale), nil
}
