// Package main generates a performance report over stored fills: a
// markdown summary plus CSV breakdowns, and snapshots the daily PnL
// points to the analytics store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"trading-journal/internal/demo"
	"trading-journal/internal/domain"
	"trading-journal/internal/reporting"
	"trading-journal/internal/storage"
	chstore "trading-journal/internal/storage/clickhouse"
	"trading-journal/internal/storage/memory"
	"trading-journal/internal/storage/migrations"
	pgstore "trading-journal/internal/storage/postgres"
)

func main() {
	// Parse flags
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional; enables daily snapshot persistence)")
	accountID := flag.String("account-id", "", "Restrict the report to one account")
	startDate := flag.String("start-date", "", "Inclusive start date (YYYY-MM-DD)")
	endDate := flag.String("end-date", "", "Inclusive end date (YYYY-MM-DD)")
	symbol := flag.String("symbol", "", "Restrict to one symbol")
	side := flag.String("side", "", "Restrict to one side (long, short)")
	marketType := flag.String("market-type", "", "Restrict to one market type (spot, perp, options)")
	timezone := flag.String("timezone", "UTC", "Time zone for calendar-day buckets")
	useDemo := flag.Bool("use-demo", false, "Run over generated demo fills instead of a database")
	flag.Parse()

	ctx := context.Background()

	if !*useDemo && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required when not using demo data")
		fmt.Fprintln(os.Stderr, "Use --use-demo to run with generated fills instead")
		os.Exit(1)
	}

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --timezone %q: %v\n", *timezone, err)
		os.Exit(1)
	}

	state, err := buildFilterState(*startDate, *endDate, *symbol, *marketType, *side)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fillStore, dailyStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useDemo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to databases: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	report, err := reporting.NewGenerator(fillStore).WithLocation(loc).Generate(ctx, state, *accountID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	files := map[string]string{
		"REPORT.md":   reporting.RenderMarkdown(report),
		"symbols.csv": reporting.RenderSymbolCSV(report.Symbols),
		"daily.csv":   reporting.RenderDailyCSV(report.Daily),
	}
	for name, content := range files {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	// Persist the daily snapshot when an analytics store is available.
	if dailyStore != nil && len(report.Daily) > 0 {
		if err := dailyStore.InsertBulk(ctx, report.Daily); err != nil {
			fmt.Fprintf(os.Stderr, "Error snapshotting daily PnL: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("Report generated successfully:")
	fmt.Printf("  - %s/REPORT.md\n", *outputDir)
	fmt.Printf("  - %s/symbols.csv\n", *outputDir)
	fmt.Printf("  - %s/daily.csv\n", *outputDir)
	if dailyStore != nil && len(report.Daily) > 0 {
		fmt.Printf("  - %d daily PnL points snapshotted\n", len(report.Daily))
	}
}

// buildFilterState assembles the filter window from CLI flags.
func buildFilterState(startDate, endDate, symbol, marketType, side string) (domain.FilterState, error) {
	state := domain.FilterState{
		Symbol:     symbol,
		MarketType: marketType,
		Side:       side,
	}
	if startDate != "" {
		t, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
		if err != nil {
			return state, fmt.Errorf("invalid --start-date %q", startDate)
		}
		state.StartDate = &t
	}
	if endDate != "" {
		t, err := time.ParseInLocation("2006-01-02", endDate, time.UTC)
		if err != nil {
			return state, fmt.Errorf("invalid --end-date %q", endDate)
		}
		state.EndDate = &t
	}
	return state, nil
}

// createStores wires the fill source and, when available, the daily
// snapshot sink. Demo mode seeds an in-memory store with generated
// fills; the snapshot sink is nil when no ClickHouse DSN is given.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useDemo bool) (storage.FillStore, storage.DailyPnLStore, func(), error) {
	if useDemo {
		fills := memory.NewFillStore()
		if _, err := fills.InsertIdempotent(ctx, demo.Fills(40, 1, time.Now().UTC())); err != nil {
			return nil, nil, nil, fmt.Errorf("seed demo fills: %w", err)
		}
		return fills, memory.NewDailyPnLStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	if clickhouseDSN == "" {
		return pgstore.NewFillStore(pool), nil, pool.Close, nil
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return pgstore.NewFillStore(pool), chstore.NewDailyPnLStore(chConn), cleanup, nil
}
