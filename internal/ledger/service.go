// Package ledger books fund purchases, redemptions and wallet movements.
//
// Every mutation runs in a single database transaction that first locks the
// investor's account row, so all operations for one investor are serialised.
// Account and holding writes additionally carry a version check. Nothing is
// retried here: a caller that sees domain.ErrVersionConflict starts over.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
)

type accountRepo interface {
	GetByInvestorID(ctx context.Context, investorID uuid.UUID) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, investorID uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error
	UpdateRiskProfile(ctx context.Context, tx *sql.Tx, a *domain.Account, newVersion int64) error
}

type fundRepo interface {
	GetShared(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Fund, error)
}

type holdingRepo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, investorID, fundID uuid.UUID) (*domain.Holding, error)
	Create(ctx context.Context, tx *sql.Tx, h *domain.Holding) error
	Update(ctx context.Context, tx *sql.Tx, h *domain.Holding) error
	Delete(ctx context.Context, tx *sql.Tx, h *domain.Holding) error
	ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]domain.HoldingValuation, error)
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.LedgerTransaction) error
	ListByInvestor(ctx context.Context, investorID uuid.UUID, limit, offset int) ([]domain.LedgerTransaction, int, error)
}

type Service struct {
	accounts     accountRepo
	funds        fundRepo
	holdings     holdingRepo
	transactions transactionRepo
	db           *sql.DB
}

func NewService(
	accounts accountRepo,
	funds fundRepo,
	holdings holdingRepo,
	transactions transactionRepo,
	db *sql.DB,
) *Service {
	return &Service{
		accounts:     accounts,
		funds:        funds,
		holdings:     holdings,
		transactions: transactions,
		db:           db,
	}
}

// lockAccount opens a transaction and takes the investor lock. The caller owns
// tx and must roll it back or commit it.
func (s *Service) lockAccount(ctx context.Context, investorID uuid.UUID) (*sql.Tx, *domain.Account, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("lockAccount: begin tx: %w", err)
	}

	account, err := s.accounts.GetForUpdate(ctx, tx, investorID)
	if err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("lockAccount: %w", err)
	}
	return tx, account, nil
}
