package primary

import (
	"context"
	"fmt"

	"folio/internal/models"
	"folio/internal/store"
)

// --- Search History Store Implementation ---

func (s *StoreImpl) RecordSearchQuery(ctx context.Context, q *models.SearchQuery) error {
	sql := `
		INSERT INTO search_queries (query, path, results_count, executed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	if q.ExecutedAt.IsZero() {
		q.ExecutedAt = now()
	}
	if err := s.db.QueryRow(ctx, sql, q.Query, q.Path, q.ResultsCount, q.ExecutedAt).Scan(&q.ID); err != nil {
		return fmt.Errorf("failed to record search query: %w", err)
	}
	return nil
}

func (s *StoreImpl) ListSearchQueries(ctx context.Context, limit int) ([]*models.SearchQuery, error) {
	if limit <= 0 {
		limit = 20
	}
	sql := `
		SELECT id, query, path, results_count, executed_at
		FROM search_queries
		ORDER BY executed_at DESC, id DESC
		LIMIT $1`

	rows, err := s.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search queries: %w", err)
	}
	defer rows.Close()

	queries := []*models.SearchQuery{}
	for rows.Next() {
		q := &models.SearchQuery{}
		if err := rows.Scan(&q.ID, &q.Query, &q.Path, &q.ResultsCount, &q.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search query row: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search query rows: %w", err)
	}
	return queries, nil
}

var _ store.SearchHistoryStore = (*StoreImpl)(nil)
