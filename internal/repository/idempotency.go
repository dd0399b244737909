package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IdempotencyCacheEntry is a stored response to a mutating request, keyed by
// the caller's Idempotency-Key and investor. A Pending entry has been
// reserved by a request that has not finished yet and carries no response.
type IdempotencyCacheEntry struct {
	Key          string
	InvestorID   uuid.UUID
	RequestHash  string
	Pending      bool
	StatusCode   int
	ResponseBody []byte
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

type IdempotencyRepository struct {
	db *sql.DB
}

func NewIdempotencyRepository(db *sql.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// Get returns the live entry for (key, investorID) as of now, or nil when there is none.
func (r *IdempotencyRepository) Get(ctx context.Context, key string, investorID uuid.UUID, now time.Time) (*IdempotencyCacheEntry, error) {
	var (
		e      IdempotencyCacheEntry
		status sql.NullInt32
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT idempotency_key, investor_id, request_hash, status_code, response_body, created_at, expires_at
		FROM idempotency_cache
		WHERE idempotency_key = $1 AND investor_id = $2 AND expires_at > $3`,
		key, investorID, now,
	).Scan(&e.Key, &e.InvestorID, &e.RequestHash, &status, &e.ResponseBody, &e.CreatedAt, &e.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	e.Pending = !status.Valid
	e.StatusCode = int(status.Int32)
	return &e, nil
}

// Reserve claims (key, investorID) for a new request and reports whether the
// claim succeeded. A row whose expiry has passed is taken over in place, so
// a key can be reused once its previous response has lapsed. The reservation
// itself lapses at expiresAt if the request never completes.
func (r *IdempotencyRepository) Reserve(ctx context.Context, key string, investorID uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO idempotency_cache (idempotency_key, investor_id, request_hash, status_code, response_body, created_at, expires_at)
		VALUES ($1, $2, $3, NULL, NULL, $4, $5)
		ON CONFLICT (idempotency_key, investor_id) DO UPDATE SET
			request_hash = EXCLUDED.request_hash,
			status_code = NULL,
			response_body = NULL,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
		WHERE idempotency_cache.expires_at <= EXCLUDED.created_at`,
		key, investorID, requestHash, now, expiresAt,
	)
	if err != nil {
		return false, fmt.Errorf("Reserve: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Reserve: rows affected: %w", err)
	}
	return n == 1, nil
}

// Complete stores the final response on a pending reservation.
func (r *IdempotencyRepository) Complete(ctx context.Context, key string, investorID uuid.UUID, statusCode int, body []byte, expiresAt time.Time) error {
	if body == nil {
		body = []byte{}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE idempotency_cache SET status_code = $3, response_body = $4, expires_at = $5
		WHERE idempotency_key = $1 AND investor_id = $2 AND status_code IS NULL`,
		key, investorID, statusCode, body, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("Complete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Complete: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Complete: no pending reservation for key %q", key)
	}
	return nil
}

// Release drops a pending reservation so the key can be retried.
func (r *IdempotencyRepository) Release(ctx context.Context, key string, investorID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM idempotency_cache
		WHERE idempotency_key = $1 AND investor_id = $2 AND status_code IS NULL`,
		key, investorID,
	)
	if err != nil {
		return fmt.Errorf("Release: %w", err)
	}
	return nil
}

// DeleteExpired purges entries that expired before cutoff and reports how many went.
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM idempotency_cache WHERE expires_at < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("DeleteExpired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteExpired: rows affected: %w", err)
	}
	return n, nil
}
