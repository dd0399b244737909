package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
)

const transactionColumns = `id, investor_id, fund_id, type, amount, units, status,
	reference_id, description, created_at`

// TransactionRepository is append-only: there is no update or delete path.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.LedgerTransaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.InvestorID, t.FundID, t.Type, domain.Quantize(t.Amount), domain.Quantize(t.Units),
		t.Status, t.ReferenceID, t.Description, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ListByInvestor returns one page of the investor's transactions, newest first,
// plus the total count.
func (r *TransactionRepository) ListByInvestor(ctx context.Context, investorID uuid.UUID, limit, offset int) ([]domain.LedgerTransaction, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE investor_id = $1`, investorID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByInvestor: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE investor_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		investorID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByInvestor: %w", err)
	}
	defer rows.Close()

	var txns []domain.LedgerTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListByInvestor: scan: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListByInvestor: rows: %w", err)
	}
	return txns, total, nil
}

func scanTransaction(s scanner) (*domain.LedgerTransaction, error) {
	var t domain.LedgerTransaction
	err := s.Scan(
		&t.ID, &t.InvestorID, &t.FundID, &t.Type, &t.Amount, &t.Units, &t.Status,
		&t.ReferenceID, &t.Description, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
