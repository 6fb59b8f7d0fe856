package primary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"folio/internal/models"
	"folio/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TextIndexName is the GIN index backing RelevanceSearch.
const TextIndexName = "contents_search_idx"

// searchDocument must match the expression the index is built on, or the planner ignores the index.
const searchDocument = `contents_search_document(title, description, content, tags)`

const (
	pgDuplicateTable  = "42P07"
	pgUniqueViolation = "23505"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EnsureTextIndex creates the combined text index if it is missing.
// Concurrent callers racing on creation get store.ErrIndexExists.
func (s *StoreImpl) EnsureTextIndex(ctx context.Context) error {
	sql := `CREATE INDEX IF NOT EXISTS ` + TextIndexName + ` ON contents USING GIN (` + searchDocument + `)`
	if _, err := s.db.Exec(ctx, sql); err != nil {
		if isAlreadyExists(err) {
			return fmt.Errorf("%s: %w", TextIndexName, store.ErrIndexExists)
		}
		return fmt.Errorf("failed to create text index %s: %w", TextIndexName, err)
	}
	return nil
}

// isAlreadyExists matches the errors Postgres raises when two sessions create the same index at once.
func isAlreadyExists(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgDuplicateTable || pgErr.Code == pgUniqueViolation
}

// RelevanceSearch performs a ranked full-text search over title, description, content and tags.
func (s *StoreImpl) RelevanceSearch(ctx context.Context, query string, limit int) ([]store.ScoredContent, error) {
	sql := `
		SELECT ` + contentColumns + `,
			ts_rank(` + searchDocument + `, q)::float8 AS score
		FROM contents, plainto_tsquery('english', $1) AS q
		WHERE ` + searchDocument + ` @@ q
		ORDER BY score DESC, id ASC
		LIMIT $2`

	rows, err := s.db.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query content for relevance search: %w", err)
	}
	return collectScored(rows)
}

// SubstringSearch matches query as a case-insensitive substring of any text field or any tag.
// Rows come back in insertion order and carry no score.
func (s *StoreImpl) SubstringSearch(ctx context.Context, query string, limit int) ([]store.ScoredContent, error) {
	sql := `
		SELECT ` + contentColumns + `, 0::float8 AS score
		FROM contents
		WHERE title ILIKE $1
			OR description ILIKE $1
			OR content ILIKE $1
			OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $1)
		ORDER BY id ASC
		LIMIT $2`

	pattern := "%" + likeEscaper.Replace(query) + "%"
	rows, err := s.db.Query(ctx, sql, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query content for substring search: %w", err)
	}
	return collectScored(rows)
}

func collectScored(rows pgx.Rows) ([]store.ScoredContent, error) {
	defer rows.Close()

	results := []store.ScoredContent{}
	for rows.Next() {
		content := &models.Content{}
		var score float64
		if err := scanContent(rows, content, &score); err != nil {
			return nil, fmt.Errorf("failed to scan content row during search: %w", err)
		}
		results = append(results, store.ScoredContent{Content: content, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search rows: %w", err)
	}
	return results, nil
}

var _ store.ContentSearcher = (*StoreImpl)(nil)
