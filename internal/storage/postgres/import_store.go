package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// ImportStore implements storage.ImportStore using PostgreSQL.
type ImportStore struct {
	pool *Pool
}

// NewImportStore creates a new ImportStore.
func NewImportStore(pool *Pool) *ImportStore {
	return &ImportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ImportStore = (*ImportStore)(nil)

// Create records a new import batch in pending state.
func (s *ImportStore) Create(ctx context.Context, rec *domain.ImportRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = domain.ImportPending
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO imports (
			id, source_type, source_label, file_hash, account_id, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.ID, rec.SourceType, rec.SourceLabel, rec.FileHash,
		rec.AccountID, rec.Status, rec.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("create import: %w", err)
	}
	return nil
}

// MarkStatus transitions an import to processed or failed.
func (s *ImportStore) MarkStatus(ctx context.Context, id string, status domain.ImportStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE imports SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("mark import status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// List retrieves all imports, newest first.
func (s *ImportStore) List(ctx context.Context) ([]domain.ImportRecord, error) {
	query := `
		SELECT id, source_type, source_label, file_hash, account_id, status, created_at
		FROM imports
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var recs []domain.ImportRecord
	for rows.Next() {
		var r domain.ImportRecord
		err := rows.Scan(
			&r.ID, &r.SourceType, &r.SourceLabel, &r.FileHash,
			&r.AccountID, &r.Status, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan import row: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import rows: %w", err)
	}
	return recs, nil
}
