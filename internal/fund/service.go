package fund

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/josh-kwaku/fund-ledger/internal/analytics"
	"github.com/josh-kwaku/fund-ledger/internal/domain"
	"github.com/josh-kwaku/fund-ledger/internal/logging"
)

const MaxCompare = 10

type fundRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Fund, error)
	List(ctx context.Context, filter domain.FundFilter) ([]domain.Fund, error)
	Create(ctx context.Context, fund *domain.Fund) error
	Update(ctx context.Context, fund *domain.Fund) error
	Delete(ctx context.Context, id uuid.UUID) error
	RecordPrice(ctx context.Context, tx *sql.Tx, fundID uuid.UUID, date time.Time, price decimal.Decimal) error
	GetPriceHistory(ctx context.Context, fundID uuid.UUID) ([]domain.PricePoint, error)
}

// Detail is a fund with its full price history and performance report.
type Detail struct {
	Fund      domain.Fund
	History   []domain.PricePoint
	Analytics analytics.Report
}

type Service struct {
	funds          fundRepo
	db             *sql.DB
	riskFreeRate   decimal.Decimal
	maxConcurrency int
}

func NewService(funds fundRepo, db *sql.DB, riskFreeRate decimal.Decimal, maxConcurrency int) *Service {
	return &Service{
		funds:          funds,
		db:             db,
		riskFreeRate:   riskFreeRate,
		maxConcurrency: max(maxConcurrency, 1),
	}
}

func (s *Service) ListFunds(ctx context.Context, filter domain.FundFilter) ([]domain.Fund, error) {
	funds, err := s.funds.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ListFunds: %w", err)
	}
	return funds, nil
}

func (s *Service) GetFundDetail(ctx context.Context, fundID uuid.UUID) (*Detail, error) {
	f, err := s.funds.GetByID(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("GetFundDetail: %w", err)
	}

	history, err := s.funds.GetPriceHistory(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("GetFundDetail: %w", err)
	}

	return &Detail{
		Fund:      *f,
		History:   history,
		Analytics: analytics.Compute(history, s.riskFreeRate),
	}, nil
}

// Compare builds the detail for each fund concurrently. Results keep the
// order of fundIDs; any failure fails the whole comparison.
func (s *Service) Compare(ctx context.Context, fundIDs []uuid.UUID) ([]Detail, error) {
	if len(fundIDs) == 0 || len(fundIDs) > MaxCompare {
		return nil, fmt.Errorf("Compare: need 1 to %d funds: %w", MaxCompare, domain.ErrInvalidRequest)
	}

	details := make([]Detail, len(fundIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, id := range fundIDs {
		g.Go(func() error {
			d, err := s.GetFundDetail(gctx, id)
			if err != nil {
				return err
			}
			details[i] = *d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Compare: %w", err)
	}
	return details, nil
}

func (s *Service) CreateFund(ctx context.Context, f *domain.Fund) (*domain.Fund, error) {
	normalize(f)
	if err := validate(f); err != nil {
		return nil, fmt.Errorf("CreateFund: %w", err)
	}

	f.ID = uuid.New()
	f.CreatedAt = time.Now().UTC()
	if err := s.funds.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("CreateFund: %w", err)
	}

	logging.FromContext(ctx).Info("fund created", "fund_id", f.ID, "ticker", f.Ticker, "nav", f.CurrentNav)
	return f, nil
}

// UpdateFund replaces the fund's descriptive fields and NAV.
func (s *Service) UpdateFund(ctx context.Context, fundID uuid.UUID, f *domain.Fund) (*domain.Fund, error) {
	normalize(f)
	if err := validate(f); err != nil {
		return nil, fmt.Errorf("UpdateFund: %w", err)
	}

	existing, err := s.funds.GetByID(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("UpdateFund: %w", err)
	}
	f.ID = existing.ID
	f.CreatedAt = existing.CreatedAt

	if err := s.funds.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("UpdateFund: %w", err)
	}

	logging.FromContext(ctx).Info("fund updated", "fund_id", f.ID, "ticker", f.Ticker, "nav", f.CurrentNav)
	return f, nil
}

func (s *Service) DeleteFund(ctx context.Context, fundID uuid.UUID) error {
	if err := s.funds.Delete(ctx, fundID); err != nil {
		return fmt.Errorf("DeleteFund: %w", err)
	}
	logging.FromContext(ctx).Info("fund deleted", "fund_id", fundID)
	return nil
}

// RecordPrice stores the price for date, replacing any price already on file
// for that date, and moves the current NAV when date is the newest point.
func (s *Service) RecordPrice(ctx context.Context, fundID uuid.UUID, date time.Time, price decimal.Decimal) error {
	if !domain.ValidAmount(price) {
		return fmt.Errorf("RecordPrice: %w", domain.ErrInvalidAmount)
	}
	if date.IsZero() {
		return fmt.Errorf("RecordPrice: missing date: %w", domain.ErrInvalidRequest)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("RecordPrice: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.funds.RecordPrice(ctx, tx, fundID, date, price); err != nil {
		return fmt.Errorf("RecordPrice: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("RecordPrice: commit: %w", err)
	}

	logging.FromContext(ctx).Info("fund price recorded",
		"fund_id", fundID,
		"date", date.Format(time.DateOnly),
		"price", price,
	)
	return nil
}

func normalize(f *domain.Fund) {
	f.Name = strings.TrimSpace(f.Name)
	f.Ticker = strings.ToUpper(strings.TrimSpace(f.Ticker))
	f.Category = domain.FundCategory(strings.ToUpper(string(f.Category)))
}

func validate(f *domain.Fund) error {
	switch {
	case f.Name == "":
		return fmt.Errorf("name required: %w", domain.ErrInvalidRequest)
	case f.Ticker == "" || len(f.Ticker) > 10:
		return fmt.Errorf("ticker must be 1-10 characters: %w", domain.ErrInvalidRequest)
	case !f.Category.IsValid():
		return fmt.Errorf("unknown category %q: %w", f.Category, domain.ErrInvalidRequest)
	case f.RiskRating < 1 || f.RiskRating > 5:
		return fmt.Errorf("risk rating must be 1-5: %w", domain.ErrInvalidRequest)
	case !domain.ValidAmount(f.CurrentNav):
		return fmt.Errorf("nav: %w", domain.ErrInvalidAmount)
	case !domain.ValidExpenseRatio(f.ExpenseRatio):
		return fmt.Errorf("expense ratio %s out of range: %w", f.ExpenseRatio, domain.ErrInvalidRequest)
	case f.MinInvestment.IsNegative():
		return fmt.Errorf("negative minimum investment: %w", domain.ErrInvalidRequest)
	}
	return nil
}
