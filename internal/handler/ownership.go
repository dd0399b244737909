package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/fund-ledger/internal/auth"
)

// investorFromPath resolves the {id} path segment and requires it to be the
// authenticated investor. A mismatch reads as not found so other investors'
// IDs cannot be discovered.
func investorFromPath(r *http.Request) (uuid.UUID, *AppError) {
	authID, ok := auth.InvestorIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, ErrMissingToken
	}

	investorID, err := uuid.Parse(r.PathValue("id"))
	if err != nil || investorID != authID {
		return uuid.Nil, ErrResourceNotFound
	}

	return investorID, nil
}

func fundFromPath(r *http.Request) (uuid.UUID, *AppError) {
	fundID, err := uuid.Parse(r.PathValue("fundID"))
	if err != nil {
		return uuid.Nil, ErrFundNotFound
	}
	return fundID, nil
}
