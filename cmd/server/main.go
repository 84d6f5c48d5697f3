// Package main initializes and starts the Cash Flow HTTP server, setting up
// configuration, logging, the entry store backend, credentials, handlers,
// and graceful shutdown.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/heybori/cashflow/internal/auth"
	"github.com/heybori/cashflow/internal/config"
	"github.com/heybori/cashflow/internal/db"
	"github.com/heybori/cashflow/internal/logger"
	"github.com/heybori/cashflow/internal/repository"
	"github.com/heybori/cashflow/internal/server/handler/http"
	"github.com/heybori/cashflow/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Pick up a local .env before reading configuration.
	_ = godotenv.Load()

	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Select the entry store backend: PostgreSQL when a DSN is configured,
	// otherwise the JSON snapshot file.
	var repo repository.EntryRepository
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer postgresDB.Close()
		repo = repository.NewPostgresRepository(postgresDB)
		zapLogger.Info("using postgres backend")
	} else {
		jsonRepo, err := repository.NewJSONRepository(options.DataFile)
		if err != nil {
			zapLogger.Fatal("cannot init ledger file", zap.Error(err))
		}
		repo = jsonRepo
		zapLogger.Info("using json snapshot backend", zap.String("file", options.DataFile))
	}

	// Build the immutable credential table once at startup.
	creds := auth.ParseCredentials(options.Pins, options.Pin)
	zapLogger.Info("auth configured", zap.String("mode", string(creds.Mode())))

	// Initialize business-logic services.
	ledgerService := service.NewLedger(repo)

	// Create HTTP handlers for auth and ledger endpoints.
	authHandler := &http.AuthHandler{Auth: creds}
	ledgerHandler := &http.LedgerHandler{Ledger: ledgerService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, ledgerHandler, creds, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	// Shut down cleanly on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
