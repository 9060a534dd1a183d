package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trading-journal/internal/domain"
	"trading-journal/internal/idhash"
	"trading-journal/internal/observability"
	"trading-journal/internal/storage"
)

// FillStore implements storage.FillStore using PostgreSQL.
type FillStore struct {
	pool *Pool
}

// NewFillStore creates a new FillStore.
func NewFillStore(pool *Pool) *FillStore {
	return &FillStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FillStore = (*FillStore)(nil)

// InsertIdempotent adds fills in one transaction, deriving missing event
// ids and skipping rows whose (account_id, event_id) already exists.
func (s *FillStore) InsertIdempotent(ctx context.Context, fills []domain.FillInsert) (storage.InsertResult, error) {
	var res storage.InsertResult
	if len(fills) == 0 {
		return res, nil
	}

	for _, f := range fills {
		if f.Symbol == "" || !f.Side.Valid() || !f.MarketType.Valid() {
			return storage.InsertResult{}, storage.ErrInvalidInput
		}
	}

	// tx.Exec bypasses the pool's instrumented methods, so the batch is
	// recorded as one insert operation when it resolves.
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.InsertResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO fills (
			id, ts, symbol, market_type, side,
			qty, price, fee, fee_type, order_type,
			tx_ref, event_id, tags, account_id, import_id
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15
		)
		ON CONFLICT (account_id, event_id) DO NOTHING
	`

	for _, f := range fills {
		eventID := f.EventID
		if eventID == "" {
			eventID = idhash.EventID(f.TxRef, f.Time, f.Symbol, f.Quantity, f.Price)
		}
		tags := f.Tags
		if tags == nil {
			tags = []string{}
		}

		tag, err := tx.Exec(ctx, query,
			uuid.NewString(), f.Time, f.Symbol, f.MarketType, f.Side,
			f.Quantity, f.Price, f.Fee, f.FeeType, f.OrderType,
			f.TxRef, eventID, tags, f.AccountID, f.ImportID,
		)
		if err != nil {
			return storage.InsertResult{}, fmt.Errorf("insert fill: %w", err)
		}
		if tag.RowsAffected() > 0 {
			res.Inserted++
		} else {
			res.Skipped++
		}
	}

	err = tx.Commit(ctx)
	observability.RecordDBQuery("postgres", "insert", time.Since(start).Seconds(), err)
	if err != nil {
		return storage.InsertResult{}, fmt.Errorf("commit tx: %w", err)
	}

	return res, nil
}

// GetByFilter retrieves fills matching the filter, ordered by timestamp
// ASC. The WHERE clauses mirror filter.MatchFillFilter.
func (s *FillStore) GetByFilter(ctx context.Context, q domain.FillFilter) ([]domain.Fill, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.From != nil {
		conds = append(conds, "ts >= "+arg(*q.From))
	}
	if q.To != nil {
		conds = append(conds, "ts <= "+arg(*q.To))
	}
	if q.Symbol != "" {
		conds = append(conds, "symbol = "+arg(q.Symbol))
	}
	if q.MarketType != "" {
		conds = append(conds, "market_type = "+arg(string(q.MarketType)))
	}
	if q.Side != "" {
		conds = append(conds, "side = "+arg(string(q.Side)))
	}
	if q.AccountID != "" {
		conds = append(conds, "account_id = "+arg(q.AccountID))
	}
	if q.OrderType != "" {
		conds = append(conds, "order_type = "+arg(string(q.OrderType)))
	}

	query := `
		SELECT
			id, ts, symbol, market_type, side,
			qty, price, fee, fee_type, order_type,
			tx_ref, event_id, tags, account_id, import_id
		FROM fills
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY ts ASC, id ASC"
	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit)
	}
	if q.Offset > 0 {
		query += " OFFSET " + arg(q.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get fills by filter: %w", err)
	}
	defer rows.Close()

	var fills []domain.Fill
	for rows.Next() {
		var f domain.Fill
		err := rows.Scan(
			&f.ID, &f.Time, &f.Symbol, &f.MarketType, &f.Side,
			&f.Quantity, &f.Price, &f.Fee, &f.FeeType, &f.OrderType,
			&f.TxRef, &f.EventID, &f.Tags, &f.AccountID, &f.ImportID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan fill row: %w", err)
		}
		fills = append(fills, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fill rows: %w", err)
	}

	return fills, nil
}

// DeleteByAccount removes all fills of an account and reports how many
// rows went away.
func (s *FillStore) DeleteByAccount(ctx context.Context, accountID string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM fills WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, fmt.Errorf("delete fills by account: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
