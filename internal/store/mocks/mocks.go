// Package mocks holds testify mocks of the store interfaces.
package mocks

import (
	"context"

	"folio/internal/models"
	"folio/internal/store"

	"github.com/stretchr/testify/mock"
)

// ContentSearcher mocks store.ContentSearcher.
type ContentSearcher struct {
	mock.Mock
}

func (m *ContentSearcher) EnsureTextIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ContentSearcher) RelevanceSearch(ctx context.Context, query string, limit int) ([]store.ScoredContent, error) {
	args := m.Called(ctx, query, limit)
	items, _ := args.Get(0).([]store.ScoredContent)
	return items, args.Error(1)
}

func (m *ContentSearcher) SubstringSearch(ctx context.Context, query string, limit int) ([]store.ScoredContent, error) {
	args := m.Called(ctx, query, limit)
	items, _ := args.Get(0).([]store.ScoredContent)
	return items, args.Error(1)
}

// ContentStore mocks store.ContentStore.
type ContentStore struct {
	mock.Mock
}

func (m *ContentStore) CreateContent(ctx context.Context, content *models.Content) error {
	return m.Called(ctx, content).Error(0)
}

func (m *ContentStore) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	args := m.Called(ctx, id)
	content, _ := args.Get(0).(*models.Content)
	return content, args.Error(1)
}

func (m *ContentStore) UpdateContent(ctx context.Context, content *models.Content) error {
	return m.Called(ctx, content).Error(0)
}

func (m *ContentStore) DeleteContent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ContentStore) ListContent(ctx context.Context, limit, offset int, category models.Category) ([]*models.Content, error) {
	args := m.Called(ctx, limit, offset, category)
	items, _ := args.Get(0).([]*models.Content)
	return items, args.Error(1)
}

func (m *ContentStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// SearchHistoryStore mocks store.SearchHistoryStore.
type SearchHistoryStore struct {
	mock.Mock
}

func (m *SearchHistoryStore) RecordSearchQuery(ctx context.Context, q *models.SearchQuery) error {
	return m.Called(ctx, q).Error(0)
}

func (m *SearchHistoryStore) ListSearchQueries(ctx context.Context, limit int) ([]*models.SearchQuery, error) {
	args := m.Called(ctx, limit)
	items, _ := args.Get(0).([]*models.SearchQuery)
	return items, args.Error(1)
}

var (
	_ store.ContentSearcher    = (*ContentSearcher)(nil)
	_ store.ContentStore       = (*ContentStore)(nil)
	_ store.SearchHistoryStore = (*SearchHistoryStore)(nil)
)
