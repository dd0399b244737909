package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/analytics"
	"github.com/josh-kwaku/fund-ledger/internal/domain"
	"github.com/josh-kwaku/fund-ledger/internal/fund"
	"github.com/josh-kwaku/fund-ledger/internal/ledger"
)

// Money and unit quantities are rendered as fixed-point strings so JSON
// clients never round them through a float.

type accountDTO struct {
	ID                uuid.UUID `json:"id"`
	InvestorID        uuid.UUID `json:"investor_id"`
	WalletBalance     string    `json:"wallet_balance"`
	RiskScore         int       `json:"risk_score"`
	RiskCategory      string    `json:"risk_category"`
	MaxFundRisk       int       `json:"max_fund_risk"`
	InvestmentHorizon string    `json:"investment_horizon"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:                a.ID,
		InvestorID:        a.InvestorID,
		WalletBalance:     fixed(a.WalletBalance),
		RiskScore:         a.RiskScore,
		RiskCategory:      string(a.RiskCategory),
		MaxFundRisk:       a.RiskCategory.MaxFundRisk(),
		InvestmentHorizon: a.InvestmentHorizon,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

type transactionDTO struct {
	ID          uuid.UUID  `json:"id"`
	FundID      *uuid.UUID `json:"fund_id"`
	Type        string     `json:"type"`
	Amount      string     `json:"amount"`
	Units       string     `json:"units"`
	Status      string     `json:"status"`
	ReferenceID *string    `json:"reference_id"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toTransactionDTO(t *domain.LedgerTransaction) transactionDTO {
	return transactionDTO{
		ID:          t.ID,
		FundID:      t.FundID,
		Type:        string(t.Type),
		Amount:      fixed(t.Amount),
		Units:       fixed(t.Units),
		Status:      string(t.Status),
		ReferenceID: t.ReferenceID,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

type holdingDTO struct {
	FundID          uuid.UUID `json:"fund_id"`
	FundName        string    `json:"fund_name"`
	Ticker          string    `json:"ticker"`
	UnitsOwned      string    `json:"units_owned"`
	AverageBuyPrice string    `json:"average_buy_price"`
	CurrentNav      string    `json:"current_nav"`
	CostBasis       string    `json:"cost_basis"`
	MarketValue     string    `json:"market_value"`
	UnrealizedGain  string    `json:"unrealized_gain"`
}

type portfolioDTO struct {
	InvestorID     uuid.UUID    `json:"investor_id"`
	WalletBalance  string       `json:"wallet_balance"`
	Holdings       []holdingDTO `json:"holdings"`
	TotalCost      string       `json:"total_cost"`
	TotalValue     string       `json:"total_value"`
	UnrealizedGain string       `json:"unrealized_gain"`
}

func toPortfolioDTO(p *ledger.Portfolio) portfolioDTO {
	holdings := make([]holdingDTO, len(p.Holdings))
	for i, h := range p.Holdings {
		holdings[i] = holdingDTO{
			FundID:          h.FundID,
			FundName:        h.FundName,
			Ticker:          h.Ticker,
			UnitsOwned:      fixed(h.UnitsOwned),
			AverageBuyPrice: fixed(h.AverageBuyPrice),
			CurrentNav:      fixed(h.CurrentNav),
			CostBasis:       fixed(h.CostBasis),
			MarketValue:     fixed(h.MarketValue),
			UnrealizedGain:  fixed(h.UnrealizedGain),
		}
	}
	return portfolioDTO{
		InvestorID:     p.InvestorID,
		WalletBalance:  fixed(p.WalletBalance),
		Holdings:       holdings,
		TotalCost:      fixed(p.TotalCost),
		TotalValue:     fixed(p.TotalValue),
		UnrealizedGain: fixed(p.UnrealizedGain),
	}
}

type fundDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Ticker        string    `json:"ticker"`
	Category      string    `json:"category"`
	RiskRating    int       `json:"risk_rating"`
	ExpenseRatio  string    `json:"expense_ratio"`
	CurrentNav    string    `json:"current_nav"`
	FundManager   string    `json:"fund_manager"`
	Description   string    `json:"description"`
	MinInvestment string    `json:"min_investment"`
	CreatedAt     time.Time `json:"created_at"`
}

func toFundDTO(f *domain.Fund) fundDTO {
	return fundDTO{
		ID:            f.ID,
		Name:          f.Name,
		Ticker:        f.Ticker,
		Category:      string(f.Category),
		RiskRating:    f.RiskRating,
		ExpenseRatio:  fixed(f.ExpenseRatio),
		CurrentNav:    fixed(f.CurrentNav),
		FundManager:   f.FundManager,
		Description:   f.Description,
		MinInvestment: fixed(f.MinInvestment),
		CreatedAt:     f.CreatedAt,
	}
}

type pricePointDTO struct {
	Date  string `json:"date"`
	Price string `json:"price"`
}

type analyticsDTO struct {
	CAGR              string `json:"cagr"`
	SharpeRatio       string `json:"sharpe_ratio"`
	StandardDeviation string `json:"standard_deviation"`
	OneYearReturn     string `json:"one_year_return"`
	PointCount        int    `json:"point_count"`
	SampleCount       int    `json:"sample_count"`
}

func toAnalyticsDTO(r analytics.Report) analyticsDTO {
	return analyticsDTO{
		CAGR:              r.CAGR.StringFixed(analytics.Scale),
		SharpeRatio:       r.SharpeRatio.StringFixed(analytics.Scale),
		StandardDeviation: r.StandardDeviation.StringFixed(analytics.Scale),
		OneYearReturn:     r.OneYearReturn.StringFixed(analytics.Scale),
		PointCount:        r.PointCount,
		SampleCount:       r.SampleCount,
	}
}

type fundDetailDTO struct {
	fundDTO
	Analytics    analyticsDTO    `json:"analytics"`
	PriceHistory []pricePointDTO `json:"price_history,omitempty"`
}

func toFundDetailDTO(d *fund.Detail, withHistory bool) fundDetailDTO {
	out := fundDetailDTO{
		fundDTO:   toFundDTO(&d.Fund),
		Analytics: toAnalyticsDTO(d.Analytics),
	}
	if withHistory {
		out.PriceHistory = make([]pricePointDTO, len(d.History))
		for i, p := range d.History {
			out.PriceHistory[i] = pricePointDTO{Date: p.Date.Format(time.DateOnly), Price: fixed(p.Price)}
		}
	}
	return out
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(domain.Scale)
}
