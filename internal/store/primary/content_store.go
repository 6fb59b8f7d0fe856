package primary

import (
	"context"
	"errors"
	"fmt"

	"folio/internal/models"
	"folio/internal/store"

	"github.com/jackc/pgx/v5"
)

// --- Content Management ---

// CreateContent inserts a new content record and fills in its id and timestamps.
func (s *StoreImpl) CreateContent(ctx context.Context, content *models.Content) error {
	query := `
		INSERT INTO contents (title, description, content, category, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id, created_at, updated_at`

	if content.Tags == nil {
		content.Tags = []string{}
	}
	err := s.db.QueryRow(ctx, query,
		content.Title, content.Description, content.Content, string(content.Category), content.Tags, now(),
	).Scan(&content.ID, &content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert content: %w", err)
	}
	return nil
}

func (s *StoreImpl) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`

	content := &models.Content{}
	if err := scanContent(s.db.QueryRow(ctx, query, id), content); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get content by id %d: %w", id, err)
	}
	return content, nil
}

func (s *StoreImpl) UpdateContent(ctx context.Context, content *models.Content) error {
	query := `
		UPDATE contents SET
			title = $1,
			description = $2,
			content = $3,
			category = $4,
			tags = $5,
			updated_at = $6
		WHERE id = $7
		RETURNING created_at, updated_at`

	if content.Tags == nil {
		content.Tags = []string{}
	}
	err := s.db.QueryRow(ctx, query,
		content.Title, content.Description, content.Content, string(content.Category), content.Tags, now(), content.ID,
	).Scan(&content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to update content %d: %w", content.ID, err)
	}
	return nil
}

func (s *StoreImpl) DeleteContent(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListContent returns content newest first. An empty category lists every category.
func (s *StoreImpl) ListContent(ctx context.Context, limit, offset int, category models.Category) ([]*models.Content, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + contentColumns + `
		FROM contents
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, string(category), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	defer rows.Close()

	contents := []*models.Content{}
	for rows.Next() {
		content := &models.Content{}
		if err := scanContent(rows, content); err != nil {
			return nil, fmt.Errorf("failed scanning content row: %w", err)
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content rows: %w", err)
	}
	return contents, nil
}

var _ store.ContentStore = (*StoreImpl)(nil)
