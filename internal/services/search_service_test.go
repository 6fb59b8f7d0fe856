package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"folio/internal/metrics"
	"folio/internal/models"
	"folio/internal/search"
	"folio/internal/store"
	"folio/internal/store/mocks"
	"folio/internal/transformer/summarize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const automationsBody = "Automations save time. They reduce errors. They scale operations."

func automationsRecord() *models.Content {
	return &models.Content{
		ID:          1,
		Title:       "Automations",
		Description: "Make.com workflows",
		Content:     automationsBody,
		Category:    models.CategoryService,
		Tags:        []string{"automation", "make.com"},
	}
}

func newExtractiveSummarizer(t *testing.T) summarize.Summarizer {
	t.Helper()
	e, err := summarize.NewExtractive()
	require.NoError(t, err)
	return summarize.NewDegrading(e, nil)
}

// fixedSearcher returns n generated records no matter the limit.
type fixedSearcher struct {
	n        int
	deadline bool
}

func (f *fixedSearcher) Search(ctx context.Context, _ string, _ int) (search.Outcome, error) {
	_, f.deadline = ctx.Deadline()
	items := make([]store.ScoredContent, f.n)
	for i := range items {
		items[i] = store.ScoredContent{
			Content: &models.Content{ID: int64(i + 1), Title: fmt.Sprintf("Item %d", i+1), Content: "Body text here."},
			Score:   float64(f.n - i),
		}
	}
	return search.Outcome{Items: items, Path: metrics.PathPrimary}, nil
}

func TestSearchContent_ScenarioAutomations(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	cs.On("EnsureTextIndex", mock.Anything).Return(nil)
	cs.On("RelevanceSearch", mock.Anything, "automation", 5).
		Return([]store.ScoredContent{{Content: automationsRecord(), Score: 0.61}}, nil)

	svc := NewSearchService(search.NewStoreChain(cs), newExtractiveSummarizer(t), nil, SearchConfig{})
	results, err := svc.SearchContent(context.Background(), SearchParams{Text: "automation", Limit: 5})
	require.NoError(t, err)

	require.Len(t, results, 1)
	r := results[0]
	assert.Greater(t, r.Score, 0.0)
	assert.Contains(t, r.Tags, "automation")
	assert.Equal(t, automationsBody, r.Content)
	assert.True(t,
		strings.Contains(r.Summary, "Automations save time.") ||
			strings.Contains(r.Summary, "They reduce errors.") ||
			strings.Contains(r.Summary, "They scale operations."),
		"summary %q should quote the body", r.Summary)
	cs.AssertNotCalled(t, "SubstringSearch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchContent_NeverExceedsLimit(t *testing.T) {
	for _, limit := range []int{1, 5, 20} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			svc := NewSearchService(&fixedSearcher{n: 30}, newExtractiveSummarizer(t), nil, SearchConfig{})
			results, err := svc.SearchContent(context.Background(), SearchParams{Text: "item", Limit: limit})
			require.NoError(t, err)
			assert.Len(t, results, limit)
		})
	}
}

func TestSearchContent_PreservesOrder(t *testing.T) {
	svc := NewSearchService(&fixedSearcher{n: 4}, newExtractiveSummarizer(t), nil, SearchConfig{})
	results, err := svc.SearchContent(context.Background(), SearchParams{Text: "item"})
	require.NoError(t, err)

	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, int64(i+1), r.ID)
	}
}

func TestSearchContent_ShortQueryNeverTouchesStore(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	svc := NewSearchService(search.NewStoreChain(cs), newExtractiveSummarizer(t), nil, SearchConfig{})

	for _, q := range []string{"", " ", "a", "  b  "} {
		_, err := svc.SearchContent(context.Background(), SearchParams{Text: q, Limit: 5})
		assert.ErrorIs(t, err, models.ErrValidation, "query %q", q)
	}
	cs.AssertNotCalled(t, "EnsureTextIndex", mock.Anything)
	cs.AssertNotCalled(t, "RelevanceSearch", mock.Anything, mock.Anything, mock.Anything)
	cs.AssertNotCalled(t, "SubstringSearch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchContent_StoreFailure(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	cs := new(mocks.ContentSearcher)
	cs.On("EnsureTextIndex", mock.Anything).Return(nil)
	cs.On("RelevanceSearch", mock.Anything, "automation", 5).Return(nil, boom)

	svc := NewSearchService(search.NewStoreChain(cs), newExtractiveSummarizer(t), nil, SearchConfig{})
	results, err := svc.SearchContent(context.Background(), SearchParams{Text: "automation", Limit: 5})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrSearchFailure)
	assert.ErrorIs(t, err, boom)
}

func TestSearchContent_FallbackScoresAreZero(t *testing.T) {
	cs := new(mocks.ContentSearcher)
	cs.On("EnsureTextIndex", mock.Anything).Return(nil)
	cs.On("RelevanceSearch", mock.Anything, "make.com", 5).Return([]store.ScoredContent{}, nil)
	cs.On("SubstringSearch", mock.Anything, "make.com", 5).
		Return([]store.ScoredContent{{Content: automationsRecord()}}, nil)

	svc := NewSearchService(search.NewStoreChain(cs), newExtractiveSummarizer(t), nil, SearchConfig{})
	results, err := svc.SearchContent(context.Background(), SearchParams{Text: "make.com", Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Score)
	assert.NotEmpty(t, results[0].Summary)
}

func TestSearchContent_NoResults(t *testing.T) {
	svc := NewSearchService(&fixedSearcher{n: 0}, newExtractiveSummarizer(t), nil, SearchConfig{})
	results, err := svc.SearchContent(context.Background(), SearchParams{Text: "zzzznotfound", Limit: 5})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

type failingSummarizer struct{}

func (failingSummarizer) Summarize(context.Context, string, string, int) (string, error) {
	return "", errors.New("summarizer down")
}

func TestSearchContent_SummaryFailureDoesNotAbort(t *testing.T) {
	svc := NewSearchService(&fixedSearcher{n: 3}, summarize.NewDegrading(failingSummarizer{}, nil), nil, SearchConfig{})
	results, err := svc.SearchContent(context.Background(), SearchParams{Text: "item", Limit: 5})
	require.NoError(t, err)

	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, "Body text here....", r.Summary)
	}
}

func TestSearchContent_UnwrappedSummarizerErrorStillFallsBack(t *testing.T) {
	svc := NewSearchService(&fixedSearcher{n: 1}, failingSummarizer{}, nil, SearchConfig{})
	results, err := svc.SearchContent(context.Background(), SearchParams{Text: "item", Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, summarize.Truncate("Body text here."), results[0].Summary)
}

// barrierSummarizer only returns once n calls are in flight at the same time.
type barrierSummarizer struct {
	n       int
	mu      sync.Mutex
	arrived int
	release chan struct{}
}

func (b *barrierSummarizer) Summarize(ctx context.Context, body, _ string, _ int) (string, error) {
	b.mu.Lock()
	b.arrived++
	if b.arrived == b.n {
		close(b.release)
	}
	b.mu.Unlock()

	select {
	case <-b.release:
		return "summary of " + body, nil
	case <-time.After(2 * time.Second):
		return "", errors.New("summaries did not run concurrently")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestSearchContent_SummariesRunConcurrently(t *testing.T) {
	b := &barrierSummarizer{n: 4, release: make(chan struct{})}
	svc := NewSearchService(&fixedSearcher{n: 4}, b, nil, SearchConfig{})

	results, err := svc.SearchContent(context.Background(), SearchParams{Text: "item", Limit: 5})
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "summary of Body text here.", r.Summary)
	}
}

func TestSearchContent_StoreCallGetsTimeout(t *testing.T) {
	f := &fixedSearcher{n: 1}
	svc := NewSearchService(f, newExtractiveSummarizer(t), nil, SearchConfig{Timeout: time.Second})
	_, err := svc.SearchContent(context.Background(), SearchParams{Text: "item"})
	require.NoError(t, err)
	assert.True(t, f.deadline)
}

func TestParams(t *testing.T) {
	svc := NewSearchService(nil, nil, nil, SearchConfig{DefaultLimit: 5, MaxLimit: 20})

	p, err := svc.Params("  automation  ", 0)
	require.NoError(t, err)
	assert.Equal(t, SearchParams{Text: "automation", Limit: 5}, p)

	p, err = svc.Params("go", -3)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Limit)

	p, err = svc.Params("go", 500)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Limit)

	_, err = svc.Params("é", 5)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "query", verr.Fields[0].Field)
}

func TestSearchContent_RecordsHistory(t *testing.T) {
	h := new(mocks.SearchHistoryStore)
	h.On("RecordSearchQuery", mock.Anything, mock.MatchedBy(func(q *models.SearchQuery) bool {
		return q.Query == "item" && q.Path == metrics.PathPrimary && q.ResultsCount == 2
	})).Return(errors.New("relation \"search_queries\" does not exist")).Once()

	svc := NewSearchService(&fixedSearcher{n: 2}, newExtractiveSummarizer(t), nil, SearchConfig{}).WithHistory(h)
	results, err := svc.SearchContent(context.Background(), SearchParams{Text: " item "})
	require.NoError(t, err, "history failures must not fail the search")
	assert.Len(t, results, 2)
	h.AssertExpectations(t)
}

func TestRecentSearches(t *testing.T) {
	svc := NewSearchService(&fixedSearcher{}, nil, nil, SearchConfig{})
	got, err := svc.RecentSearches(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	h := new(mocks.SearchHistoryStore)
	h.On("ListSearchQueries", mock.Anything, 10).Return([]*models.SearchQuery{{Query: "go", Path: metrics.PathNone}}, nil)
	got, err = svc.WithHistory(h).RecentSearches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "go", got[0].Query)
}
