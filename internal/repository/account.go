package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
)

const accountColumns = `id, investor_id, wallet_balance, risk_score, risk_category, investment_horizon,
	version, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByInvestorID(ctx context.Context, investorID uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE investor_id = $1`, investorID,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByInvestorID: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByInvestorID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, investor_id, wallet_balance, risk_score, risk_category, investment_horizon,
			version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		account.ID, account.InvestorID, account.WalletBalance, account.RiskScore, account.RiskCategory,
		account.InvestmentHorizon, account.Version, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", domain.ErrAccountExists)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// GetForUpdate locks the investor's account row until tx ends. Every ledger
// mutation takes this lock first, which serialises all work for one investor.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, investorID uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE investor_id = $1 FOR UPDATE`, investorID,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET wallet_balance = $1, version = $2, updated_at = now()
		WHERE id = $3 AND version = $4`,
		domain.Quantize(newBalance), newVersion, id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
	}
	return nil
}

// UpdateRiskProfile stores a scored questionnaire under the same version
// check as UpdateBalance.
func (r *AccountRepository) UpdateRiskProfile(ctx context.Context, tx *sql.Tx, a *domain.Account, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET risk_score = $1, risk_category = $2, investment_horizon = $3,
			version = $4, updated_at = now()
		WHERE id = $5 AND version = $6`,
		a.RiskScore, a.RiskCategory, a.InvestmentHorizon, newVersion, a.ID, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateRiskProfile: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateRiskProfile: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateRiskProfile: %w", domain.ErrVersionConflict)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(&a.ID, &a.InvestorID, &a.WalletBalance, &a.RiskScore, &a.RiskCategory, &a.InvestmentHorizon,
		&a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
