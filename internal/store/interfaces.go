package store

import (
	"context"

	"folio/internal/models"
)

// --- Content Store ---

type ContentStore interface {
	CreateContent(ctx context.Context, content *models.Content) error
	GetContent(ctx context.Context, id int64) (*models.Content, error)
	UpdateContent(ctx context.Context, content *models.Content) error
	DeleteContent(ctx context.Context, id int64) error
	ListContent(ctx context.Context, limit, offset int, category models.Category) ([]*models.Content, error)

	Ping(ctx context.Context) error
}

// --- Content Search ---

// ScoredContent is a content record paired with its text-search relevance.
// Score is 0 when the query path produces no ranking.
type ScoredContent struct {
	Content *models.Content
	Score   float64
}

// ContentSearcher is the read side the search flow needs from the store.
type ContentSearcher interface {
	// EnsureTextIndex creates the combined text index over title, description,
	// content and tags. It returns ErrIndexExists when a concurrent caller won the race.
	EnsureTextIndex(ctx context.Context) error
	// RelevanceSearch runs a ranked full-text query, best match first.
	RelevanceSearch(ctx context.Context, query string, limit int) ([]ScoredContent, error)
	// SubstringSearch matches query case-insensitively inside any text field or tag.
	SubstringSearch(ctx context.Context, query string, limit int) ([]ScoredContent, error)
}

// --- Search History ---

// SearchHistoryStore keeps a log of executed searches.
type SearchHistoryStore interface {
	RecordSearchQuery(ctx context.Context, q *models.SearchQuery) error
	ListSearchQueries(ctx context.Context, limit int) ([]*models.SearchQuery, error)
}
