package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// JournalStore implements storage.JournalStore using PostgreSQL.
type JournalStore struct {
	pool *Pool
}

// NewJournalStore creates a new JournalStore.
func NewJournalStore(pool *Pool) *JournalStore {
	return &JournalStore{pool: pool}
}

// Compile-time interface check.
var _ storage.JournalStore = (*JournalStore)(nil)

const journalColumns = `
	id, created_at, trade_ref, account_id,
	title, strategy_tag, mood, mistakes, lessons,
	screenshot_urls, custom_tags
`

// List retrieves all entries, newest first.
func (s *JournalStore) List(ctx context.Context) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	return scanJournalEntries(rows)
}

// GetByID retrieves one entry. Returns ErrNotFound if not exists.
func (s *JournalStore) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		WHERE id = $1
	`

	e, err := scanJournalEntry(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get journal entry by id: %w", err)
	}
	return e, nil
}

// Upsert creates the entry when its ID is empty, otherwise replaces the
// stored entry's editable fields.
func (s *JournalStore) Upsert(ctx context.Context, entry domain.JournalEntryUpsert) (*domain.JournalEntry, error) {
	if entry.Title == "" {
		return nil, storage.ErrInvalidInput
	}
	urls := entry.ScreenshotURLs
	if urls == nil {
		urls = []string{}
	}
	tags := entry.CustomTags
	if tags == nil {
		tags = []string{}
	}

	if entry.ID == "" {
		query := `
			INSERT INTO journal_entries (
				id, created_at, trade_ref, account_id,
				title, strategy_tag, mood, mistakes, lessons,
				screenshot_urls, custom_tags
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING ` + journalColumns

		e, err := scanJournalEntry(s.pool.QueryRow(ctx, query,
			uuid.NewString(), time.Now().UTC(), entry.TradeRef, entry.AccountID,
			entry.Title, entry.StrategyTag, entry.Mood, entry.Mistakes, entry.Lessons,
			urls, tags,
		))
		if err != nil {
			return nil, fmt.Errorf("insert journal entry: %w", err)
		}
		return e, nil
	}

	query := `
		UPDATE journal_entries SET
			trade_ref = $2, account_id = $3,
			title = $4, strategy_tag = $5, mood = $6, mistakes = $7, lessons = $8,
			screenshot_urls = $9, custom_tags = $10
		WHERE id = $1
		RETURNING ` + journalColumns

	e, err := scanJournalEntry(s.pool.QueryRow(ctx, query,
		entry.ID, entry.TradeRef, entry.AccountID,
		entry.Title, entry.StrategyTag, entry.Mood, entry.Mistakes, entry.Lessons,
		urls, tags,
	))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("update journal entry: %w", err)
	}
	return e, nil
}

// Delete removes an entry. Returns ErrNotFound if not exists.
func (s *JournalStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanJournalEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.ID, &e.CreatedAt, &e.TradeRef, &e.AccountID,
		&e.Title, &e.StrategyTag, &e.Mood, &e.Mistakes, &e.Lessons,
		&e.ScreenshotURLs, &e.CustomTags,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanJournalEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		err := rows.Scan(
			&e.ID, &e.CreatedAt, &e.TradeRef, &e.AccountID,
			&e.Title, &e.StrategyTag, &e.Mood, &e.Mistakes, &e.Lessons,
			&e.ScreenshotURLs, &e.CustomTags,
		)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entry rows: %w", err)
	}
	return entries, nil
}
