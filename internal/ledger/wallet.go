package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
	"github.com/josh-kwaku/fund-ledger/internal/logging"
)

const defaultFeeDescription = "Advisory consultation fee"

// OpenAccount creates the investor's empty wallet. It is called once at onboarding.
func (s *Service) OpenAccount(ctx context.Context, investorID uuid.UUID) (*domain.Account, error) {
	now := time.Now().UTC()
	account := &domain.Account{
		ID:            uuid.New(),
		InvestorID:    investorID,
		WalletBalance: decimal.Zero,
		RiskCategory:  domain.RiskCategoryModerate,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}

	logging.FromContext(ctx).Info("account opened", "account_id", account.ID, "investor_id", investorID)
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, investorID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByInvestorID(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return account, nil
}

// Deposit credits amount to the investor's wallet.
func (s *Service) Deposit(ctx context.Context, investorID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	if !domain.ValidAmount(amount) {
		return nil, fmt.Errorf("Deposit: %w", domain.ErrInvalidAmount)
	}

	t, err := s.moveCash(ctx, investorID, domain.TransactionTypeDeposit, amount, "Wallet deposit")
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}
	return t, nil
}

// ChargeFee debits an advisory fee from the wallet. An empty description gets
// a generic one.
func (s *Service) ChargeFee(ctx context.Context, investorID uuid.UUID, amount decimal.Decimal, description string) (*domain.LedgerTransaction, error) {
	if !domain.ValidAmount(amount) {
		return nil, fmt.Errorf("ChargeFee: %w", domain.ErrInvalidAmount)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = defaultFeeDescription
	}

	t, err := s.moveCash(ctx, investorID, domain.TransactionTypeFee, amount, description)
	if err != nil {
		return nil, fmt.Errorf("ChargeFee: %w", err)
	}
	return t, nil
}

// moveCash applies a wallet-only movement: deposits credit, fees debit.
func (s *Service) moveCash(ctx context.Context, investorID uuid.UUID, typ domain.TransactionType, amount decimal.Decimal, description string) (*domain.LedgerTransaction, error) {
	tx, account, err := s.lockAccount(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("moveCash: %w", err)
	}
	defer tx.Rollback()

	newBalance := account.WalletBalance.Add(amount)
	if typ == domain.TransactionTypeFee {
		if account.WalletBalance.LessThan(amount) {
			return nil, fmt.Errorf("moveCash: %w", domain.ErrInsufficientFunds)
		}
		newBalance = account.WalletBalance.Sub(amount)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance, account.Version+1); err != nil {
		return nil, fmt.Errorf("moveCash: %w", err)
	}

	t := &domain.LedgerTransaction{
		ID:          uuid.New(),
		InvestorID:  investorID,
		Type:        typ,
		Amount:      amount,
		Units:       decimal.Zero,
		Status:      domain.TransactionStatusSuccess,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.transactions.Create(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("moveCash: record transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("moveCash: commit: %w", err)
	}

	logging.FromContext(ctx).Info("wallet updated",
		"transaction_id", t.ID,
		"investor_id", investorID,
		"type", typ,
		"amount", amount,
		"balance", newBalance,
	)
	return t, nil
}
