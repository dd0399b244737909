package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
)

const fundColumns = `id, name, ticker, category, risk_rating, expense_ratio, current_nav,
	fund_manager, description, min_investment, created_at`

type FundRepository struct {
	db *sql.DB
}

func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

func (r *FundRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fund, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+fundColumns+` FROM funds WHERE id = $1`, id,
	)
	f, err := scanFund(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrFundNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return f, nil
}

// GetShared reads the fund inside tx with a share lock so its NAV cannot be
// rewritten between quoting and booking a trade.
func (r *FundRepository) GetShared(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Fund, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+fundColumns+` FROM funds WHERE id = $1 FOR SHARE`, id,
	)
	f, err := scanFund(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetShared: %w", domain.ErrFundNotFound)
		}
		return nil, fmt.Errorf("GetShared: %w", err)
	}
	return f, nil
}

func (r *FundRepository) List(ctx context.Context, filter domain.FundFilter) ([]domain.Fund, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.MaxRisk != nil {
		args = append(args, *filter.MaxRisk)
		where = append(where, fmt.Sprintf("risk_rating <= $%d", len(args)))
	}

	query := `SELECT ` + fundColumns + ` FROM funds`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var funds []domain.Fund
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		funds = append(funds, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return funds, nil
}

func (r *FundRepository) Create(ctx context.Context, fund *domain.Fund) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO funds (
			id, name, ticker, category, risk_rating, expense_ratio, current_nav,
			fund_manager, description, min_investment, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		fund.ID, fund.Name, fund.Ticker, fund.Category, fund.RiskRating, fund.ExpenseRatio,
		domain.Quantize(fund.CurrentNav), fund.FundManager, fund.Description,
		domain.Quantize(fund.MinInvestment), fund.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", domain.ErrFundExists)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *FundRepository) Update(ctx context.Context, fund *domain.Fund) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE funds SET name = $1, ticker = $2, category = $3, risk_rating = $4,
			expense_ratio = $5, current_nav = $6, fund_manager = $7, description = $8,
			min_investment = $9
		WHERE id = $10`,
		fund.Name, fund.Ticker, fund.Category, fund.RiskRating, fund.ExpenseRatio,
		domain.Quantize(fund.CurrentNav), fund.FundManager, fund.Description,
		domain.Quantize(fund.MinInvestment), fund.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Update: %w", domain.ErrFundExists)
		}
		return fmt.Errorf("Update: %w", err)
	}
	if err := fundRowAffected(res); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

// Delete removes the fund and, by cascade, its price history. Funds that
// investors still hold cannot be deleted.
func (r *FundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM funds WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("Delete: %w", domain.ErrFundHasHoldings)
		}
		return fmt.Errorf("Delete: %w", err)
	}
	if err := fundRowAffected(res); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

// RecordPrice upserts the price point for date and, when date is the latest
// point on file, moves the fund's current NAV to it.
func (r *FundRepository) RecordPrice(ctx context.Context, tx *sql.Tx, fundID uuid.UUID, date time.Time, price decimal.Decimal) error {
	price = domain.Quantize(price)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO fund_prices (fund_id, price_date, price) VALUES ($1, $2, $3)
		ON CONFLICT (fund_id, price_date) DO UPDATE SET price = EXCLUDED.price`,
		fundID, date.UTC().Format(time.DateOnly), price,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("RecordPrice: %w", domain.ErrFundNotFound)
		}
		return fmt.Errorf("RecordPrice: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE funds SET current_nav = $1
		WHERE id = $2 AND NOT EXISTS (
			SELECT 1 FROM fund_prices WHERE fund_id = $2 AND price_date > $3
		)`,
		price, fundID, date.UTC().Format(time.DateOnly),
	)
	if err != nil {
		return fmt.Errorf("RecordPrice: nav: %w", err)
	}
	return nil
}

// GetPriceHistory returns the fund's price points in ascending date order.
func (r *FundRepository) GetPriceHistory(ctx context.Context, fundID uuid.UUID) ([]domain.PricePoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT price_date, price FROM fund_prices WHERE fund_id = $1 ORDER BY price_date ASC`,
		fundID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetPriceHistory: %w", err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.Date, &p.Price); err != nil {
			return nil, fmt.Errorf("GetPriceHistory: scan: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetPriceHistory: rows: %w", err)
	}
	return points, nil
}

func fundRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrFundNotFound
	}
	return nil
}

func scanFund(s scanner) (*domain.Fund, error) {
	var f domain.Fund
	err := s.Scan(
		&f.ID, &f.Name, &f.Ticker, &f.Category, &f.RiskRating, &f.ExpenseRatio, &f.CurrentNav,
		&f.FundManager, &f.Description, &f.MinInvestment, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
