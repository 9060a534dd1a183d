// Package migrations carries the embedded SQL schema for both backends
// and the runners that apply it on startup.
package migrations

import "embed"

// PostgresFS holds the relational schema (accounts, imports, fills,
// annotations, journal entries).
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the analytics schema (daily PnL snapshots).
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
