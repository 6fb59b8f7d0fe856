package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"folio/internal/metrics"
	"folio/internal/models"
	"folio/internal/store"
	"folio/internal/store/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func scored(id int64, title string, score float64) store.ScoredContent {
	return store.ScoredContent{
		Content: &models.Content{ID: id, Title: title, Category: models.CategoryService, Tags: []string{}},
		Score:   score,
	}
}

func TestChain_PrimaryHitSkipsFallback(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	cs.On("EnsureTextIndex", mock.Anything).Return(nil).Once()
	cs.On("RelevanceSearch", mock.Anything, "automation", 5).
		Return([]store.ScoredContent{scored(1, "Automations", 0.8)}, nil).Once()

	out, err := NewStoreChain(cs).Search(context.Background(), "automation", 5)
	require.NoError(t, err)

	assert.Equal(t, metrics.PathPrimary, out.Path)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 0.8, out.Items[0].Score)
	cs.AssertNotCalled(t, "SubstringSearch", mock.Anything, mock.Anything, mock.Anything)
	cs.AssertExpectations(t)
}

func TestChain_FallbackWhenPrimaryEmpty(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	cs.On("EnsureTextIndex", mock.Anything).Return(nil)
	cs.On("RelevanceSearch", mock.Anything, "make.co", 5).Return([]store.ScoredContent{}, nil).Once()
	cs.On("SubstringSearch", mock.Anything, "make.co", 5).
		Return([]store.ScoredContent{scored(2, "Automations", 0.3), scored(9, "Tools", 0)}, nil).Once()

	out, err := NewStoreChain(cs).Search(context.Background(), "make.co", 5)
	require.NoError(t, err)

	assert.Equal(t, metrics.PathFallback, out.Path)
	require.Len(t, out.Items, 2)
	assert.Equal(t, int64(2), out.Items[0].Content.ID)
	for _, it := range out.Items {
		assert.Zero(t, it.Score)
	}
	cs.AssertExpectations(t)
}

func TestChain_NothingFound(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	cs.On("EnsureTextIndex", mock.Anything).Return(nil)
	cs.On("RelevanceSearch", mock.Anything, "zzzznotfound", 5).Return([]store.ScoredContent{}, nil)
	cs.On("SubstringSearch", mock.Anything, "zzzznotfound", 5).Return([]store.ScoredContent{}, nil)

	out, err := NewStoreChain(cs).Search(context.Background(), "zzzznotfound", 5)
	require.NoError(t, err)
	assert.Equal(t, metrics.PathNone, out.Path)
	assert.NotNil(t, out.Items)
	assert.Empty(t, out.Items)
}

func TestChain_StoreFailureAbortsWithoutFallback(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	boom := errors.New("connection reset by peer")
	cs.On("EnsureTextIndex", mock.Anything).Return(nil)
	cs.On("RelevanceSearch", mock.Anything, "automation", 5).Return(nil, boom)

	_, err := NewStoreChain(cs).Search(context.Background(), "automation", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	cs.AssertNotCalled(t, "SubstringSearch", mock.Anything, mock.Anything, mock.Anything)
}

func TestChain_CapsOversizedResults(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	cs.On("EnsureTextIndex", mock.Anything).Return(nil)
	cs.On("RelevanceSearch", mock.Anything, "go", 1).
		Return([]store.ScoredContent{scored(1, "a", 0.9), scored(2, "b", 0.5)}, nil)

	out, err := NewStoreChain(cs).Search(context.Background(), "go", 1)
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
}

func TestRelevanceStrategy_IndexFailureDoesNotAbort(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	cs.On("EnsureTextIndex", mock.Anything).Return(errors.New("permission denied")).Twice()
	cs.On("RelevanceSearch", mock.Anything, "go", 5).Return([]store.ScoredContent{scored(1, "Go", 0.2)}, nil).Twice()

	r := NewRelevanceStrategy(cs)
	for i := 0; i < 2; i++ {
		items, err := r.TryQuery(context.Background(), "go", 5)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	}
	// Not marked ready after a real failure, so the index is retried on the next query.
	cs.AssertNumberOfCalls(t, "EnsureTextIndex", 2)
}

func TestRelevanceStrategy_ExistingIndexIsNotAnError(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	cs.On("EnsureTextIndex", mock.Anything).Return(store.ErrIndexExists).Once()
	cs.On("RelevanceSearch", mock.Anything, "go", 5).Return([]store.ScoredContent{scored(1, "Go", 0.2)}, nil)

	r := NewRelevanceStrategy(cs)
	for i := 0; i < 3; i++ {
		_, err := r.TryQuery(context.Background(), "go", 5)
		require.NoError(t, err)
	}
	cs.AssertNumberOfCalls(t, "EnsureTextIndex", 1)
	cs.AssertNumberOfCalls(t, "RelevanceSearch", 3)
}

func TestChain_ConcurrentSearchesRaceOnIndexCreation(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	cs.On("EnsureTextIndex", mock.Anything).Return(nil).Once()
	cs.On("EnsureTextIndex", mock.Anything).Return(store.ErrIndexExists)
	cs.On("RelevanceSearch", mock.Anything, "automation", 5).
		Return([]store.ScoredContent{scored(1, "Automations", 0.6)}, nil)

	chain := NewStoreChain(cs)
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = chain.Search(context.Background(), "automation", 5)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}
