package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
)

const holdingColumns = `id, investor_id, fund_id, units_owned, average_buy_price, version,
	created_at, updated_at`

type HoldingRepository struct {
	db *sql.DB
}

func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// GetForUpdate returns the locked holding, or domain.ErrHoldingNotFound when the
// investor has no position in the fund.
func (r *HoldingRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, investorID, fundID uuid.UUID) (*domain.Holding, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+holdingColumns+` FROM holdings
		WHERE investor_id = $1 AND fund_id = $2 FOR UPDATE`,
		investorID, fundID,
	)
	h, err := scanHolding(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrHoldingNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return h, nil
}

func (r *HoldingRepository) Create(ctx context.Context, tx *sql.Tx, h *domain.Holding) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO holdings (`+holdingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.ID, h.InvestorID, h.FundID, domain.Quantize(h.UnitsOwned), domain.Quantize(h.AverageBuyPrice),
		h.Version, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", domain.ErrVersionConflict)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Update writes units and average price when the stored version is still
// h.Version-1.
func (r *HoldingRepository) Update(ctx context.Context, tx *sql.Tx, h *domain.Holding) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE holdings SET units_owned = $1, average_buy_price = $2, version = $3, updated_at = $4
		WHERE id = $5 AND version = $6`,
		domain.Quantize(h.UnitsOwned), domain.Quantize(h.AverageBuyPrice), h.Version, h.UpdatedAt,
		h.ID, h.Version-1,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return checkVersioned(res, "Update")
}

func (r *HoldingRepository) Delete(ctx context.Context, tx *sql.Tx, h *domain.Holding) error {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM holdings WHERE id = $1 AND version = $2`, h.ID, h.Version,
	)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return checkVersioned(res, "Delete")
}

func (r *HoldingRepository) ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]domain.HoldingValuation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT h.id, h.investor_id, h.fund_id, h.units_owned, h.average_buy_price, h.version,
			h.created_at, h.updated_at, f.name, f.ticker, f.current_nav
		FROM holdings h JOIN funds f ON f.id = h.fund_id
		WHERE h.investor_id = $1 ORDER BY f.name`,
		investorID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByInvestor: %w", err)
	}
	defer rows.Close()

	var out []domain.HoldingValuation
	for rows.Next() {
		var v domain.HoldingValuation
		err := rows.Scan(
			&v.ID, &v.InvestorID, &v.FundID, &v.UnitsOwned, &v.AverageBuyPrice, &v.Version,
			&v.CreatedAt, &v.UpdatedAt, &v.FundName, &v.Ticker, &v.CurrentNav,
		)
		if err != nil {
			return nil, fmt.Errorf("ListByInvestor: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByInvestor: rows: %w", err)
	}
	return out, nil
}

func checkVersioned(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrVersionConflict)
	}
	return nil
}

func scanHolding(s scanner) (*domain.Holding, error) {
	var h domain.Holding
	err := s.Scan(
		&h.ID, &h.InvestorID, &h.FundID, &h.UnitsOwned, &h.AverageBuyPrice, &h.Version,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
