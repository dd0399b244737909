package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/fund-ledger/internal/auth"
	"github.com/josh-kwaku/fund-ledger/internal/handler"
	"github.com/josh-kwaku/fund-ledger/internal/logging"
	"github.com/josh-kwaku/fund-ledger/internal/repository"
)

type idempotencyRepository interface {
	Get(ctx context.Context, key string, investorID uuid.UUID, now time.Time) (*repository.IdempotencyCacheEntry, error)
	Reserve(ctx context.Context, key string, investorID uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error)
	Complete(ctx context.Context, key string, investorID uuid.UUID, statusCode int, body []byte, expiresAt time.Time) error
	Release(ctx context.Context, key string, investorID uuid.UUID) error
}

const (
	idempotencyTTL = 24 * time.Hour
	// A reservation whose request died without completing frees the key after this.
	reservationTTL = 2 * time.Minute
)

// Idempotency replays the stored response when an investor repeats a mutating
// request with the same Idempotency-Key. Reusing a key for a different request
// is a conflict, and a repeat that arrives while the first request is still
// running is turned away rather than run twice.
//
// Server errors and version conflicts are not stored: the key is released so
// the same request can be retried.
func Idempotency(repo idempotencyRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				handler.RespondAppError(w, handler.ErrMissingIdempotencyKey, nil)
				return
			}

			investorID, ok := auth.InvestorIDFromContext(r.Context())
			if !ok {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				handler.RespondAppError(w, handler.ErrInvalidRequest, nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			reqHash := computeHash(r.Method, r.URL.Path, body)
			log := logging.FromContext(r.Context()).With("idempotency_key", key)

			now := time.Now().UTC()
			reserved, err := repo.Reserve(r.Context(), key, investorID, reqHash, now, now.Add(reservationTTL))
			if err != nil {
				log.Error("idempotency reservation failed", "error", err)
				handler.RespondAppError(w, handler.ErrInternalError, nil)
				return
			}

			if !reserved {
				cached, err := repo.Get(r.Context(), key, investorID, now)
				if err != nil {
					log.Error("idempotency cache lookup failed", "error", err)
					handler.RespondAppError(w, handler.ErrInternalError, nil)
					return
				}

				switch {
				case cached == nil || (cached.Pending && cached.RequestHash == reqHash):
					handler.RespondAppError(w, handler.ErrIdempotencyInProgress, nil)
				case cached.RequestHash != reqHash:
					handler.RespondAppError(w, handler.ErrIdempotencyConflict, nil)
				default:
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("X-Idempotent-Replayed", "true")
					w.WriteHeader(cached.StatusCode)
					if _, err := w.Write(cached.ResponseBody); err != nil {
						log.Error("failed to write idempotent replay", "error", err)
					}
				}
				return
			}

			rec := &responseRecorder{ResponseWriter: w, body: &bytes.Buffer{}, statusCode: http.StatusOK}
			defer func() {
				// Recovery sits outside this middleware, so a panic must still free the key.
				if p := recover(); p != nil {
					release(r.Context(), repo, key, investorID)
					panic(p)
				}
			}()
			next.ServeHTTP(rec, r)

			ctx := context.WithoutCancel(r.Context())
			if !cacheable(rec.statusCode, rec.body.Bytes()) {
				release(ctx, repo, key, investorID)
				return
			}
			if err := repo.Complete(ctx, key, investorID, rec.statusCode, rec.body.Bytes(), time.Now().UTC().Add(idempotencyTTL)); err != nil {
				log.Error("idempotency cache store failed", "error", err)
			}
		})
	}
}

func release(ctx context.Context, repo idempotencyRepository, key string, investorID uuid.UUID) {
	if err := repo.Release(context.WithoutCancel(ctx), key, investorID); err != nil {
		logging.FromContext(ctx).Error("idempotency release failed", "error", err, "idempotency_key", key)
	}
}

// cacheable reports whether a response is final. A version conflict means the
// request lost a race and was never applied, so a retry must reach the handler.
func cacheable(status int, body []byte) bool {
	if status >= http.StatusInternalServerError {
		return false
	}
	if status != http.StatusConflict {
		return true
	}
	var resp handler.APIResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == nil {
		return true
	}
	return resp.Error.Code != handler.ErrVersionConflict.Code
}

func computeHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
