package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Portfolio is the investor's wallet plus every open holding valued at the
// funds' current NAVs. Gains are unrealised; realised gains are not tracked.
type Portfolio struct {
	InvestorID     uuid.UUID
	WalletBalance  decimal.Decimal
	Holdings       []domain.HoldingValuation
	TotalCost      decimal.Decimal
	TotalValue     decimal.Decimal
	UnrealizedGain decimal.Decimal
}

func (s *Service) Portfolio(ctx context.Context, investorID uuid.UUID) (*Portfolio, error) {
	account, err := s.accounts.GetByInvestorID(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("Portfolio: %w", err)
	}

	holdings, err := s.holdings.ListByInvestor(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("Portfolio: %w", err)
	}

	p := &Portfolio{
		InvestorID:    investorID,
		WalletBalance: account.WalletBalance,
		Holdings:      make([]domain.HoldingValuation, 0, len(holdings)),
		TotalCost:     decimal.Zero,
		TotalValue:    decimal.Zero,
	}
	for _, h := range holdings {
		h.CostBasis = domain.Quantize(h.UnitsOwned.Mul(h.AverageBuyPrice))
		h.MarketValue = domain.Quantize(h.UnitsOwned.Mul(h.CurrentNav))
		h.UnrealizedGain = h.MarketValue.Sub(h.CostBasis)
		p.TotalCost = p.TotalCost.Add(h.CostBasis)
		p.TotalValue = p.TotalValue.Add(h.MarketValue)
		p.Holdings = append(p.Holdings, h)
	}
	p.UnrealizedGain = p.TotalValue.Sub(p.TotalCost)
	return p, nil
}

// History pages through the investor's transactions, newest first. A
// non-positive limit means DefaultHistoryLimit; limits above MaxHistoryLimit
// are capped.
func (s *Service) History(ctx context.Context, investorID uuid.UUID, limit, offset int) ([]domain.LedgerTransaction, int, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)
	offset = max(offset, 0)

	txns, total, err := s.transactions.ListByInvestor(ctx, investorID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("History: %w", err)
	}
	return txns, total, nil
}
