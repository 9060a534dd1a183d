// Package main imports a CSV fill document into the journal database,
// printing inserted/skipped counts and any per-row validation errors.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"trading-journal/internal/csvimport"
	"trading-journal/internal/domain"
	"trading-journal/internal/storage/migrations"
	pgstore "trading-journal/internal/storage/postgres"
)

func main() {
	// Parse flags
	file := flag.String("file", "", "CSV file to import")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	accountID := flag.String("account-id", "", "Account to attribute the fills to")
	label := flag.String("label", "", "Import label (defaults to the file name)")
	printTemplate := flag.Bool("template", false, "Print the CSV template and exit")
	flag.Parse()

	if *printTemplate {
		fmt.Print(csvimport.Template())
		return
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		os.Exit(1)
	}
	if *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required")
		os.Exit(1)
	}

	ctx := context.Background()

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *file, err)
		os.Exit(1)
	}

	result, err := csvimport.Parse(bytes.NewReader(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", *file, err)
		os.Exit(1)
	}

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

	importLabel := *label
	if importLabel == "" {
		importLabel = filepath.Base(*file)
	}

	imports := pgstore.NewImportStore(pool)
	importRow := &domain.ImportRecord{
		SourceType:  domain.ImportCSV,
		SourceLabel: importLabel,
		FileHash:    csvimport.FileHash(data),
		AccountID:   *accountID,
	}
	if err := imports.Create(ctx, importRow); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording import: %v\n", err)
		os.Exit(1)
	}

	for i := range result.Fills {
		result.Fills[i].AccountID = *accountID
		result.Fills[i].ImportID = importRow.ID
	}

	res, err := pgstore.NewFillStore(pool).InsertIdempotent(ctx, result.Fills)
	if err != nil {
		_ = imports.MarkStatus(ctx, importRow.ID, domain.ImportFailed)
		fmt.Fprintf(os.Stderr, "Error inserting fills: %v\n", err)
		os.Exit(1)
	}
	if err := imports.MarkStatus(ctx, importRow.ID, domain.ImportProcessed); err != nil {
		fmt.Fprintf(os.Stderr, "Error marking import processed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Import %s complete: %d inserted, %d skipped as duplicates\n",
		importRow.ID, res.Inserted, res.Skipped)

	if len(result.RowErrors) > 0 {
		fmt.Fprintf(os.Stderr, "%d rows rejected:\n", len(result.RowErrors))
		for _, re := range result.RowErrors {
			fmt.Fprintf(os.Stderr, "  - %v\n", re)
		}
		os.Exit(2)
	}
}
