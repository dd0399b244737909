package auth

import (
	"context"

	"github.com/google/uuid"
)

type investorIDKey struct{}

func ContextWithInvestorID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, investorIDKey{}, id)
}

func InvestorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(investorIDKey{}).(uuid.UUID)
	return id, ok
}
