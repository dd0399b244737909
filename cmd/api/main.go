package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josh-kwaku/fund-ledger/internal/config"
	"github.com/josh-kwaku/fund-ledger/internal/fund"
	"github.com/josh-kwaku/fund-ledger/internal/handler"
	"github.com/josh-kwaku/fund-ledger/internal/jobs"
	"github.com/josh-kwaku/fund-ledger/internal/ledger"
	"github.com/josh-kwaku/fund-ledger/internal/logging"
	"github.com/josh-kwaku/fund-ledger/internal/middleware"
	"github.com/josh-kwaku/fund-ledger/internal/repository"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.Init("fund-ledger", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		ConnectAttempts: cfg.DBConnectAttempts,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	accounts := repository.NewAccountRepository(db)
	funds := repository.NewFundRepository(db)
	holdings := repository.NewHoldingRepository(db)
	transactions := repository.NewTransactionRepository(db)
	idempotency := repository.NewIdempotencyRepository(db)

	ledgerSvc := ledger.NewService(accounts, funds, holdings, transactions, db)
	fundSvc := fund.NewService(funds, db, cfg.RiskFreeRate, cfg.AnalyticsConcurrency)

	scheduler := jobs.NewScheduler(log, time.Minute)
	if err := scheduler.Add(cfg.IdempotencyCleanupSchedule, jobs.NewIdempotencyCleanup(idempotency, log)); err != nil {
		return err
	}
	scheduler.Start()
	// Runs before db.Close so an in-flight cleanup never sees a closed pool.
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
		defer cancel()
		scheduler.Stop(stopCtx)
	}()

	router := newRouter(routeDeps{
		health:      handler.NewHealthHandler(db, version),
		ledger:      handler.NewLedgerHandler(ledgerSvc),
		funds:       handler.NewFundHandler(fundSvc),
		jwtSecret:   cfg.JWTSecret,
		adminKey:    cfg.AdminAPIKey,
		idempotency: middleware.Idempotency(idempotency),
		corsOrigins: cfg.CORSAllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started", "addr", addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
