package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
	"github.com/josh-kwaku/fund-ledger/internal/logging"
)

const maxHorizonLength = 50

// SubmitRiskProfile scores a questionnaire and stores the result on the
// investor's account. A later submission replaces the earlier one; an empty
// horizon keeps the one already on file.
func (s *Service) SubmitRiskProfile(ctx context.Context, investorID uuid.UUID, answers []int, horizon string) (*domain.Account, error) {
	score, category, err := domain.ScoreRiskAnswers(answers)
	if err != nil {
		return nil, fmt.Errorf("SubmitRiskProfile: %w", err)
	}
	horizon = strings.TrimSpace(horizon)
	if len(horizon) > maxHorizonLength {
		return nil, fmt.Errorf("SubmitRiskProfile: horizon longer than %d: %w", maxHorizonLength, domain.ErrInvalidRequest)
	}

	tx, account, err := s.lockAccount(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("SubmitRiskProfile: %w", err)
	}
	defer tx.Rollback()

	account.RiskScore = score
	account.RiskCategory = category
	if horizon != "" {
		account.InvestmentHorizon = horizon
	}
	if err := s.accounts.UpdateRiskProfile(ctx, tx, account, account.Version+1); err != nil {
		return nil, fmt.Errorf("SubmitRiskProfile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("SubmitRiskProfile: commit: %w", err)
	}
	account.Version++
	account.UpdatedAt = time.Now().UTC()

	logging.FromContext(ctx).Info("risk profile updated",
		"investor_id", investorID,
		"risk_score", score,
		"risk_category", category,
	)
	return account, nil
}
