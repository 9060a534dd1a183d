// Package main seeds the journal database with deterministic demo
// fills so a fresh install has data to explore.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"trading-journal/internal/demo"
	"trading-journal/internal/domain"
	"trading-journal/internal/storage/migrations"
	pgstore "trading-journal/internal/storage/postgres"
)

func main() {
	// Parse flags
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	trades := flag.Int("trades", 40, "Number of round-trip trades to generate (two fills each)")
	seed := flag.Int64("seed", 1, "Random seed; the same seed regenerates the same history")
	accountID := flag.String("account-id", "", "Account to attribute the fills to")
	reset := flag.Bool("reset", false, "Delete the account's existing fills first")
	flag.Parse()

	if *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
		os.Exit(1)
	}

	fillStore := pgstore.NewFillStore(pool)

	if *reset {
		deleted, err := fillStore.DeleteByAccount(ctx, *accountID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resetting fills: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %d existing fills\n", deleted)
	}

	imports := pgstore.NewImportStore(pool)
	importRow := &domain.ImportRecord{
		SourceType:  domain.ImportMock,
		SourceLabel: "demo seed",
		AccountID:   *accountID,
	}
	if err := imports.Create(ctx, importRow); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording import: %v\n", err)
		os.Exit(1)
	}

	fills := demo.Fills(*trades, *seed, time.Now().UTC())
	for i := range fills {
		fills[i].AccountID = *accountID
		fills[i].ImportID = importRow.ID
	}

	res, err := fillStore.InsertIdempotent(ctx, fills)
	if err != nil {
		_ = imports.MarkStatus(ctx, importRow.ID, domain.ImportFailed)
		fmt.Fprintf(os.Stderr, "Error inserting fills: %v\n", err)
		os.Exit(1)
	}
	if err := imports.MarkStatus(ctx, importRow.ID, domain.ImportProcessed); err != nil {
		fmt.Fprintf(os.Stderr, "Error marking import processed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d fills (%d skipped as duplicates) for import %s\n",
		res.Inserted, res.Skipped, importRow.ID)
}
