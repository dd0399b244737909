package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
	"github.com/josh-kwaku/fund-ledger/internal/logging"
)

// Buy converts amount of the investor's wallet into units of fund at its
// current NAV and folds them into the holding's weighted-average cost.
func (s *Service) Buy(ctx context.Context, investorID, fundID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	log := logging.FromContext(ctx)

	if !domain.ValidAmount(amount) {
		return nil, fmt.Errorf("Buy: %w", domain.ErrInvalidAmount)
	}

	tx, account, err := s.lockAccount(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("Buy: %w", err)
	}
	defer tx.Rollback()

	fund, err := s.funds.GetShared(ctx, tx, fundID)
	if err != nil {
		return nil, fmt.Errorf("Buy: %w", err)
	}

	nav, err := quoteNav(fund)
	if err != nil {
		log.Error("refusing buy against corrupt fund price", "fund_id", fund.ID, "nav", fund.CurrentNav)
		return nil, fmt.Errorf("Buy: %w", err)
	}

	units := unitsFor(amount, nav)
	if !units.IsPositive() {
		return nil, fmt.Errorf("Buy: amount buys no units: %w", domain.ErrInvalidAmount)
	}

	if account.WalletBalance.LessThan(amount) {
		return nil, fmt.Errorf("Buy: %w", domain.ErrInsufficientFunds)
	}

	now := time.Now().UTC()
	holding, isNew, err := s.loadOrOpenHolding(ctx, tx, investorID, fundID, now)
	if err != nil {
		return nil, fmt.Errorf("Buy: %w", err)
	}

	avg, err := weightedAverage(holding.UnitsOwned, holding.AverageBuyPrice, units, nav)
	if err != nil {
		return nil, fmt.Errorf("Buy: %w", err)
	}
	holding.AverageBuyPrice = avg
	holding.UnitsOwned = holding.UnitsOwned.Add(units)
	holding.UpdatedAt = now

	if err := s.accounts.UpdateBalance(ctx, tx, account.ID, account.WalletBalance.Sub(amount), account.Version+1); err != nil {
		return nil, fmt.Errorf("Buy: debit wallet: %w", err)
	}

	if isNew {
		err = s.holdings.Create(ctx, tx, holding)
	} else {
		holding.Version++
		err = s.holdings.Update(ctx, tx, holding)
	}
	if err != nil {
		return nil, fmt.Errorf("Buy: save holding: %w", err)
	}

	t := newFundTransaction(investorID, fund, domain.TransactionTypeBuy, amount, units, now,
		fmt.Sprintf("Bought %s units of %s", units.StringFixed(domain.Scale), fund.Name))
	if err := s.transactions.Create(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("Buy: record transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Buy: commit: %w", err)
	}

	log.Info("fund units bought",
		"transaction_id", t.ID,
		"investor_id", investorID,
		"fund_id", fundID,
		"amount", amount,
		"units", units,
		"nav", nav,
		"average_buy_price", holding.AverageBuyPrice,
	)

	return t, nil
}

// Sell redeems units worth amount at the fund's current NAV and credits the
// wallet. The average buy price of what remains is left untouched; an
// emptied holding is deleted.
func (s *Service) Sell(ctx context.Context, investorID, fundID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	log := logging.FromContext(ctx)

	if !domain.ValidAmount(amount) {
		return nil, fmt.Errorf("Sell: %w", domain.ErrInvalidAmount)
	}

	tx, account, err := s.lockAccount(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}
	defer tx.Rollback()

	fund, err := s.funds.GetShared(ctx, tx, fundID)
	if err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}

	holding, err := s.holdings.GetForUpdate(ctx, tx, investorID, fundID)
	if err != nil {
		return nil, fmt.Errorf("Sell: %w", err)
	}

	nav, err := quoteNav(fund)
	if err != nil {
		log.Error("refusing sell against corrupt fund price", "fund_id", fund.ID, "nav", fund.CurrentNav)
		return nil, fmt.Errorf("Sell: %w", err)
	}

	units := unitsFor(amount, nav)
	if !units.IsPositive() {
		return nil, fmt.Errorf("Sell: amount redeems no units: %w", domain.ErrInvalidAmount)
	}
	if holding.UnitsOwned.LessThan(units) {
		return nil, fmt.Errorf("Sell: own %s, need %s: %w", holding.UnitsOwned, units, domain.ErrInsufficientUnits)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, account.ID, account.WalletBalance.Add(amount), account.Version+1); err != nil {
		return nil, fmt.Errorf("Sell: credit wallet: %w", err)
	}

	now := time.Now().UTC()
	remaining := holding.UnitsOwned.Sub(units)
	if remaining.IsZero() {
		err = s.holdings.Delete(ctx, tx, holding)
	} else {
		holding.UnitsOwned = remaining
		holding.UpdatedAt = now
		holding.Version++
		err = s.holdings.Update(ctx, tx, holding)
	}
	if err != nil {
		return nil, fmt.Errorf("Sell: save holding: %w", err)
	}

	t := newFundTransaction(investorID, fund, domain.TransactionTypeSell, amount, units, now,
		fmt.Sprintf("Sold %s units of %s", units.StringFixed(domain.Scale), fund.Name))
	if err := s.transactions.Create(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("Sell: record transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Sell: commit: %w", err)
	}

	log.Info("fund units sold",
		"transaction_id", t.ID,
		"investor_id", investorID,
		"fund_id", fundID,
		"amount", amount,
		"units", units,
		"nav", nav,
		"units_remaining", remaining,
	)

	return t, nil
}

func (s *Service) loadOrOpenHolding(ctx context.Context, tx *sql.Tx, investorID, fundID uuid.UUID, now time.Time) (*domain.Holding, bool, error) {
	h, err := s.holdings.GetForUpdate(ctx, tx, investorID, fundID)
	if err == nil {
		return h, false, nil
	}
	if !errors.Is(err, domain.ErrHoldingNotFound) {
		return nil, false, fmt.Errorf("loadOrOpenHolding: %w", err)
	}
	return &domain.Holding{
		ID:              uuid.New(),
		InvestorID:      investorID,
		FundID:          fundID,
		UnitsOwned:      decimal.Zero,
		AverageBuyPrice: decimal.Zero,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, true, nil
}

func newFundTransaction(investorID uuid.UUID, fund *domain.Fund, typ domain.TransactionType, amount, units decimal.Decimal, now time.Time, desc string) *domain.LedgerTransaction {
	fundID := fund.ID
	ref := fund.ReferenceID()
	return &domain.LedgerTransaction{
		ID:          uuid.New(),
		InvestorID:  investorID,
		FundID:      &fundID,
		Type:        typ,
		Amount:      amount,
		Units:       units,
		Status:      domain.TransactionStatusSuccess,
		ReferenceID: &ref,
		Description: desc,
		CreatedAt:   now,
	}
}
