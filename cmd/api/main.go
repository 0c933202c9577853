package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
	authStore "github.com/MrJamesThe3rd/stockroom/internal/auth/store"
	"github.com/MrJamesThe3rd/stockroom/internal/config"
	stockHttp "github.com/MrJamesThe3rd/stockroom/internal/http"
	authHandler "github.com/MrJamesThe3rd/stockroom/internal/http/auth"
	importHandler "github.com/MrJamesThe3rd/stockroom/internal/http/importcsv"
	invoiceHandler "github.com/MrJamesThe3rd/stockroom/internal/http/invoice"
	productHandler "github.com/MrJamesThe3rd/stockroom/internal/http/product"
	reportHandler "github.com/MrJamesThe3rd/stockroom/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/stockroom/internal/http/transaction"
	"github.com/MrJamesThe3rd/stockroom/internal/importer"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/stockroom/internal/ledger/store"
	"github.com/MrJamesThe3rd/stockroom/internal/logging"
	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(cfg))

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	var initial *ledger.State
	if cfg.Ledger.Seed {
		initial = ledger.SeedState()
	}

	users, err := newUserStore(cfg.Ledger.Seed)
	if err != nil {
		return err
	}

	var (
		ledgerService = ledger.NewService(ledgerStore.New(initial), ledger.WithUpcomingWindow(cfg.Ledger.UpcomingWindow))
		authService   = auth.NewService(users)
		reportService = report.NewService(ledgerService)
		importService = importer.NewService()
		tokens        = auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	)

	router := stockHttp.New(cfg, tokens, stockHttp.Handlers{
		Auth:         authHandler.NewHandler(authService, tokens, cfg.Auth.RateLimit),
		Products:     productHandler.NewHandler(ledgerService),
		Transactions: txHandler.NewHandler(ledgerService),
		Invoices:     invoiceHandler.NewHandler(ledgerService),
		Reports:      reportHandler.NewHandler(reportService),
		Import:       importHandler.NewHandler(importService, ledgerService),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "seeded", cfg.Ledger.Seed)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newUserStore(seed bool) (*authStore.Store, error) {
	if !seed {
		return authStore.New(), nil
	}

	return authStore.NewSeeded()
}
