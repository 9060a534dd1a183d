// Package main runs the trading journal HTTP API: fill import and
// queries, derived trades, analytics, journal and annotation CRUD,
// wallet linking and account sync, plus health and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trading-journal/internal/observability"
	"trading-journal/internal/reporting"
	"trading-journal/internal/storage"
	chstore "trading-journal/internal/storage/clickhouse"
	"trading-journal/internal/storage/memory"
	"trading-journal/internal/storage/migrations"
	pgstore "trading-journal/internal/storage/postgres"
	syncer "trading-journal/internal/sync"
	"trading-journal/internal/wallet"
)

// Server holds the API's dependencies.
type Server struct {
	stores     *appStores
	challenger *wallet.Challenger
	provider   syncer.Provider
	generator  *reporting.Generator
	logger     *log.Logger
}

// appStores holds all storage implementations.
type appStores struct {
	fills       storage.FillStore
	annotations storage.AnnotationStore
	journal     storage.JournalStore
	accounts    storage.AccountStore
	imports     storage.ImportStore
	dailyPnL    storage.DailyPnLStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	timezone := flag.String("timezone", envOr("REPORT_TIMEZONE", "UTC"), "Time zone for calendar-day analytics buckets")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		logger.Fatalf("Invalid --timezone %q: %v", *timezone, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		stores:     stores,
		challenger: wallet.NewChallenger(),
		provider:   &syncer.MockProvider{},
		generator:  reporting.NewGenerator(stores.fills).WithLocation(loc),
		logger:     logger,
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("Listening on %s", *addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logger.Printf("Received signal %v, shutting down...", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server error: %v", err)
		}
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores, running migrations for the
// database-backed mode.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool, logger *log.Logger) (*appStores, func(), error) {
	if useMemory {
		stores := &appStores{
			fills:       memory.NewFillStore(),
			annotations: memory.NewAnnotationStore(),
			journal:     memory.NewJournalStore(),
			accounts:    memory.NewAccountStore(),
			imports:     memory.NewImportStore(),
			dailyPnL:    memory.NewDailyPnLStore(),
		}
		logger.Println("Using in-memory storage")
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	// ClickHouse
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	stores := &appStores{
		fills:       pgstore.NewFillStore(pool),
		annotations: pgstore.NewAnnotationStore(pool),
		journal:     pgstore.NewJournalStore(pool),
		accounts:    pgstore.NewAccountStore(pool),
		imports:     pgstore.NewImportStore(pool),
		dailyPnL:    chstore.NewDailyPnLStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// routes builds the HTTP mux with all API endpoints.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())

	mux.HandleFunc("GET /api/fills", s.instrument("/api/fills", s.handleListFills))
	mux.HandleFunc("POST /api/fills", s.instrument("/api/fills", s.handleInsertFills))
	mux.HandleFunc("DELETE /api/fills", s.instrument("/api/fills", s.handleDeleteFills))
	mux.HandleFunc("GET /api/fills/{id}/annotation", s.instrument("/api/fills/{id}/annotation", s.handleGetAnnotation))
	mux.HandleFunc("PUT /api/fills/{id}/annotation", s.instrument("/api/fills/{id}/annotation", s.handleUpsertAnnotation))

	mux.HandleFunc("GET /api/trades", s.instrument("/api/trades", s.handleListTrades))
	mux.HandleFunc("GET /api/analytics", s.instrument("/api/analytics", s.handleAnalytics))
	mux.HandleFunc("GET /api/analytics/daily", s.instrument("/api/analytics/daily", s.handleDailyPnL))

	mux.HandleFunc("POST /api/import/csv", s.instrument("/api/import/csv", s.handleImportCSV))
	mux.HandleFunc("GET /api/import/template", s.instrument("/api/import/template", s.handleImportTemplate))
	mux.HandleFunc("GET /api/imports", s.instrument("/api/imports", s.handleListImports))

	mux.HandleFunc("GET /api/accounts", s.instrument("/api/accounts", s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.instrument("/api/accounts", s.handleCreateAccount))
	mux.HandleFunc("POST /api/accounts/{id}/sync", s.instrument("/api/accounts/{id}/sync", s.handleSyncAccount))

	mux.HandleFunc("GET /api/journal", s.instrument("/api/journal", s.handleListJournal))
	mux.HandleFunc("POST /api/journal", s.instrument("/api/journal", s.handleUpsertJournal))
	mux.HandleFunc("GET /api/journal/{id}", s.instrument("/api/journal/{id}", s.handleGetJournal))
	mux.HandleFunc("DELETE /api/journal/{id}", s.instrument("/api/journal/{id}", s.handleDeleteJournal))

	mux.HandleFunc("POST /api/wallet/challenge", s.instrument("/api/wallet/challenge", s.handleWalletChallenge))
	mux.HandleFunc("POST /api/wallet/verify", s.instrument("/api/wallet/verify", s.handleWalletVerify))

	mux.HandleFunc("POST /api/demo/seed", s.instrument("/api/demo/seed", s.handleDemoSeed))

	return mux
}

// envOr reads an environment variable with a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
