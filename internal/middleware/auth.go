package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/josh-kwaku/fund-ledger/internal/auth"
	"github.com/josh-kwaku/fund-ledger/internal/handler"
	"github.com/josh-kwaku/fund-ledger/internal/logging"
)

const adminKeyHeader = "X-Admin-Key"

// Auth requires a bearer token issued to an investor and puts the investor ID
// on the request context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			claims, err := auth.ValidateToken(token, secret)
			if err != nil {
				logging.FromContext(r.Context()).Debug("bearer token rejected", "error", err)
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			ctx := auth.ContextWithInvestorID(r.Context(), claims.InvestorID)
			ctx = logging.With(ctx, "investor_id", claims.InvestorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminKey guards catalogue maintenance routes with a shared operator key.
func AdminKey(key string) func(http.Handler) http.Handler {
	want := []byte(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(adminKeyHeader))
			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				logging.FromContext(r.Context()).Warn("admin key rejected", "path", r.URL.Path)
				handler.RespondAppError(w, handler.ErrInvalidAdminKey, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
