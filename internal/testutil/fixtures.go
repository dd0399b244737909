package testutil

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
)

func SeedAccount(t *testing.T, db *sql.DB, investorID uuid.UUID, balance string) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:            uuid.New(),
		InvestorID:    investorID,
		WalletBalance: decimal.RequireFromString(balance),
		RiskCategory:  domain.RiskCategoryModerate,
		Version:       1,
	}
	err := db.QueryRow(
		`INSERT INTO accounts (id, investor_id, wallet_balance, version)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		a.ID, a.InvestorID, a.WalletBalance, a.Version,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return a
}

// SeedFund inserts an equity fund with the given ticker and current NAV. The
// NAV is written as-is, so tests can plant a corrupt price.
func SeedFund(t *testing.T, db *sql.DB, ticker, nav string) *domain.Fund {
	t.Helper()

	f := &domain.Fund{
		ID:            uuid.New(),
		Name:          ticker + " Growth Fund",
		Ticker:        ticker,
		Category:      domain.FundCategoryEquity,
		RiskRating:    3,
		ExpenseRatio:  decimal.RequireFromString("0.75"),
		CurrentNav:    decimal.RequireFromString(nav),
		MinInvestment: decimal.RequireFromString("100"),
	}
	err := db.QueryRow(
		`INSERT INTO funds (id, name, ticker, category, risk_rating, expense_ratio, current_nav, min_investment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		f.ID, f.Name, f.Ticker, f.Category, f.RiskRating, f.ExpenseRatio, f.CurrentNav, f.MinInvestment,
	).Scan(&f.CreatedAt)
	if err != nil {
		t.Fatalf("seed fund %s: %v", ticker, err)
	}
	return f
}

// SeedPrices writes one price per day starting at start, in order.
func SeedPrices(t *testing.T, db *sql.DB, fundID uuid.UUID, start time.Time, prices ...string) {
	t.Helper()

	for i, p := range prices {
		_, err := db.Exec(
			`INSERT INTO fund_prices (fund_id, price_date, price) VALUES ($1, $2, $3)`,
			fundID, start.AddDate(0, 0, i).Format(time.DateOnly), p,
		)
		if err != nil {
			t.Fatalf("seed price %d: %v", i, err)
		}
	}
}

func SetFundNav(t *testing.T, db *sql.DB, fundID uuid.UUID, nav string) {
	t.Helper()

	if _, err := db.Exec(`UPDATE funds SET current_nav = $1 WHERE id = $2`, nav, fundID); err != nil {
		t.Fatalf("set fund nav: %v", err)
	}
}

func GetWalletBalance(t *testing.T, db *sql.DB, investorID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT wallet_balance FROM accounts WHERE investor_id = $1`, investorID).Scan(&balance)
	if err != nil {
		t.Fatalf("get wallet balance: %v", err)
	}
	return balance
}

// GetHolding returns nil when the investor holds none of the fund.
func GetHolding(t *testing.T, db *sql.DB, investorID, fundID uuid.UUID) *domain.Holding {
	t.Helper()

	var h domain.Holding
	err := db.QueryRow(
		`SELECT id, investor_id, fund_id, units_owned, average_buy_price, version
		 FROM holdings WHERE investor_id = $1 AND fund_id = $2`,
		investorID, fundID,
	).Scan(&h.ID, &h.InvestorID, &h.FundID, &h.UnitsOwned, &h.AverageBuyPrice, &h.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		t.Fatalf("get holding: %v", err)
	}
	return &h
}

func CountTransactions(t *testing.T, db *sql.DB, investorID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE investor_id = $1`, investorID).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	return count
}
