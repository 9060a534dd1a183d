package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trading-journal/internal/domain"
	"trading-journal/internal/storage"
)

// AnnotationStore implements storage.AnnotationStore using PostgreSQL.
type AnnotationStore struct {
	pool *Pool
}

// NewAnnotationStore creates a new AnnotationStore.
func NewAnnotationStore(pool *Pool) *AnnotationStore {
	return &AnnotationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AnnotationStore = (*AnnotationStore)(nil)

// GetByFillID retrieves the annotation for a fill. Returns ErrNotFound
// if the fill has none.
func (s *AnnotationStore) GetByFillID(ctx context.Context, fillID string) (*domain.FillAnnotation, error) {
	query := `
		SELECT id, fill_id, note, tags, created_at, updated_at
		FROM fill_annotations
		WHERE fill_id = $1
	`

	var a domain.FillAnnotation
	err := s.pool.QueryRow(ctx, query, fillID).Scan(
		&a.ID, &a.FillID, &a.Note, &a.Tags, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get annotation by fill id: %w", err)
	}
	return &a, nil
}

// Upsert creates or replaces the annotation for a fill. The created_at
// of an existing row is preserved; updates stamp updated_at.
func (s *AnnotationStore) Upsert(ctx context.Context, fillID, note string, tags []string) (*domain.FillAnnotation, error) {
	if fillID == "" {
		return nil, storage.ErrInvalidInput
	}
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO fill_annotations (id, fill_id, note, tags, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fill_id) DO UPDATE SET
			note = EXCLUDED.note,
			tags = EXCLUDED.tags,
			updated_at = now()
		RETURNING id, fill_id, note, tags, created_at, updated_at
	`

	var a domain.FillAnnotation
	err := s.pool.QueryRow(ctx, query, uuid.NewString(), fillID, note, tags, time.Now().UTC()).Scan(
		&a.ID, &a.FillID, &a.Note, &a.Tags, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert annotation: %w", err)
	}
	return &a, nil
}
