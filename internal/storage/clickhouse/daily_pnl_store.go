package clickhouse

import (
	"context"
	"fmt"
	"time"

	"trading-journal/internal/domain"
	"trading-journal/internal/money"
	"trading-journal/internal/observability"
	"trading-journal/internal/storage"
)

// dayLayout is the wire format of DailyPnLPoint.Day.
const dayLayout = "2006-01-02"

// DailyPnLStore implements storage.DailyPnLStore using ClickHouse.
type DailyPnLStore struct {
	conn *Conn
}

// NewDailyPnLStore creates a new DailyPnLStore.
func NewDailyPnLStore(conn *Conn) *DailyPnLStore {
	return &DailyPnLStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailyPnLStore = (*DailyPnLStore)(nil)

// InsertBulk upserts snapshot points keyed by (account_id, day).
// ReplacingMergeTree keeps the row with the newest computed_at per key,
// so re-inserting a recomputed day replaces the stale snapshot.
func (s *DailyPnLStore) InsertBulk(ctx context.Context, points []domain.DailyPnLPoint) error {
	if len(points) == 0 {
		return nil
	}

	for _, p := range points {
		if _, err := time.Parse(dayLayout, p.Day); err != nil {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_pnl (
			account_id, day, pnl_micros, fees_micros, trade_count, computed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	now := time.Now().UTC()
	for _, p := range points {
		day, _ := time.Parse(dayLayout, p.Day)
		err := batch.Append(
			p.AccountID, day, int64(p.PnL), int64(p.Fees), uint32(p.TradeCount), now,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	// Batch sends bypass Conn's instrumented methods.
	start := time.Now()
	err = batch.Send()
	observability.RecordDBQuery("clickhouse", "insert", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByAccount retrieves an account's points ordered by day ASC. FINAL
// collapses not-yet-merged replaced rows.
func (s *DailyPnLStore) GetByAccount(ctx context.Context, accountID string) ([]domain.DailyPnLPoint, error) {
	query := `
		SELECT account_id, day, pnl_micros, fees_micros, trade_count
		FROM daily_pnl FINAL
		WHERE account_id = ?
		ORDER BY day ASC
	`

	rows, err := s.conn.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query daily pnl: %w", err)
	}
	defer rows.Close()

	var points []domain.DailyPnLPoint
	for rows.Next() {
		var (
			p          domain.DailyPnLPoint
			day        time.Time
			pnl, fees  int64
			tradeCount uint32
		)
		if err := rows.Scan(&p.AccountID, &day, &pnl, &fees, &tradeCount); err != nil {
			return nil, fmt.Errorf("scan daily pnl row: %w", err)
		}
		p.Day = day.Format(dayLayout)
		p.PnL = money.Money(pnl)
		p.Fees = money.Money(fees)
		p.TradeCount = int(tradeCount)
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily pnl rows: %w", err)
	}

	return points, nil
}
