package main

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/josh-kwaku/fund-ledger/internal/handler"
	"github.com/josh-kwaku/fund-ledger/internal/middleware"
)

type routeDeps struct {
	health      *handler.HealthHandler
	ledger      *handler.LedgerHandler
	funds       *handler.FundHandler
	jwtSecret   string
	adminKey    string
	idempotency func(http.Handler) http.Handler
	corsOrigins []string
}

func newRouter(d routeDeps) http.Handler {
	investor := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, middleware.Auth(d.jwtSecret))
	}
	investorWrite := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, middleware.Auth(d.jwtSecret), d.idempotency)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, middleware.AdminKey(d.adminKey))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", d.health.Liveness)
	mux.HandleFunc("GET /ready", d.health.Readiness)

	mux.HandleFunc("GET /api/v1/funds", d.funds.List)
	mux.HandleFunc("GET /api/v1/funds/compare", d.funds.Compare)
	mux.HandleFunc("GET /api/v1/funds/{fundID}", d.funds.Get)

	mux.Handle("POST /api/v1/investors/{id}/account", investorWrite(d.ledger.OpenAccount))
	mux.Handle("GET /api/v1/investors/{id}/account", investor(d.ledger.GetAccount))
	mux.Handle("POST /api/v1/investors/{id}/risk-profile", investorWrite(d.ledger.RiskProfile))
	mux.Handle("POST /api/v1/investors/{id}/deposits", investorWrite(d.ledger.Deposit))
	mux.Handle("POST /api/v1/investors/{id}/buy", investorWrite(d.ledger.Buy))
	mux.Handle("POST /api/v1/investors/{id}/sell", investorWrite(d.ledger.Sell))
	mux.Handle("POST /api/v1/investors/{id}/fees", investorWrite(d.ledger.ChargeFee))
	mux.Handle("GET /api/v1/investors/{id}/holdings", investor(d.ledger.Holdings))
	mux.Handle("GET /api/v1/investors/{id}/transactions", investor(d.ledger.Transactions))

	mux.Handle("POST /api/v1/admin/funds", admin(d.funds.Create))
	mux.Handle("PUT /api/v1/admin/funds/{fundID}", admin(d.funds.Update))
	mux.Handle("DELETE /api/v1/admin/funds/{fundID}", admin(d.funds.Delete))
	mux.Handle("POST /api/v1/admin/funds/{fundID}/prices", admin(d.funds.RecordPrice))

	return middleware.Chain(mux,
		middleware.Recovery,
		cors.Handler(cors.Options{
			AllowedOrigins: d.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Admin-Key", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "X-Idempotent-Replayed"},
			MaxAge:         300,
		}),
		middleware.Tracing,
		middleware.Logging,
	)
}
