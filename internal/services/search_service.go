package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"folio/internal/metrics"
	"folio/internal/models"
	"folio/internal/search"
	"folio/internal/store"
	"folio/internal/transformer/summarize"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrSearchFailure wraps every store failure that aborted a search.
var ErrSearchFailure = errors.New("search failure")

const (
	MinQueryLength       = 2
	DefaultSearchLimit   = 5
	DefaultMaxLimit      = 50
	DefaultSearchTimeout = 10 * time.Second
)

// Searcher runs a query through the store. *search.Chain implements it.
type Searcher interface {
	Search(ctx context.Context, text string, limit int) (search.Outcome, error)
}

type SearchConfig struct {
	DefaultLimit     int
	MaxLimit         int
	Timeout          time.Duration // store call only; 0 disables
	SummarySentences int
	Concurrency      int // summaries in flight; 0 means one goroutine per result
}

// SearchParams is a validated query. Build it with SearchService.Params.
type SearchParams struct {
	Text  string
	Limit int
}

// SearchOptions are the optional knobs a POST search body may carry.
type SearchOptions struct {
	Limit int `json:"limit"`
}

// SearchResult is one summarized hit as returned to clients.
type SearchResult struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Tags        []string        `json:"tags"`
	Summary     string          `json:"summary"`
	Content     string          `json:"content"`
	Score       float64         `json:"score"`
}

type SearchService struct {
	searcher   Searcher
	summarizer summarize.Summarizer
	metrics    *metrics.Metrics
	history    store.SearchHistoryStore
	cfg        SearchConfig
}

func NewSearchService(s Searcher, sum summarize.Summarizer, m *metrics.Metrics, cfg SearchConfig) *SearchService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultSearchLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = DefaultMaxLimit
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	if cfg.SummarySentences <= 0 {
		cfg.SummarySentences = summarize.DefaultSentences
	}
	return &SearchService{searcher: s, summarizer: sum, metrics: m, cfg: cfg}
}

// WithHistory records every completed search in h. Recording failures are logged and ignored.
func (s *SearchService) WithHistory(h store.SearchHistoryStore) *SearchService {
	s.history = h
	return s
}

// RecentSearches lists the latest recorded searches, newest first.
func (s *SearchService) RecentSearches(ctx context.Context, limit int) ([]*models.SearchQuery, error) {
	if s.history == nil {
		return []*models.SearchQuery{}, nil
	}
	return s.history.ListSearchQueries(ctx, limit)
}

// Params trims text and checks its length. A non-positive limit takes the default;
// a limit above the configured maximum is capped.
func (s *SearchService) Params(text string, limit int) (SearchParams, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SearchParams{}, models.NewValidationError("query", "query is required")
	}
	if utf8.RuneCountInString(text) < MinQueryLength {
		return SearchParams{}, models.NewValidationError("query",
			fmt.Sprintf("query must be at least %d characters long", MinQueryLength))
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return SearchParams{Text: text, Limit: limit}, nil
}

// SearchContent finds matching content and summarizes every hit against the query.
// Results keep the searcher's order and never exceed the limit. Store errors are returned
// wrapped in ErrSearchFailure; summarization problems never fail the call.
func (s *SearchService) SearchContent(ctx context.Context, params SearchParams) ([]SearchResult, error) {
	params, err := s.Params(params.Text, params.Limit)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	storeCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		storeCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	outcome, err := s.searcher.Search(storeCtx, params.Text, params.Limit)
	if err != nil {
		s.metrics.SearchFailed()
		return nil, fmt.Errorf("%w: %w", ErrSearchFailure, err)
	}

	items := outcome.Items
	if len(items) > params.Limit {
		items = items[:params.Limit]
	}

	results := make([]SearchResult, len(items))
	var g errgroup.Group
	if s.cfg.Concurrency > 0 {
		g.SetLimit(s.cfg.Concurrency)
	}
	for i, item := range items {
		c := item.Content
		results[i] = SearchResult{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Category:    c.Category,
			Tags:        c.Tags,
			Content:     c.Content,
			Score:       item.Score,
		}
		if results[i].Tags == nil {
			results[i].Tags = []string{}
		}
		g.Go(func() error {
			results[i].Summary = s.summarize(ctx, c.Content, params.Text)
			return nil
		})
	}
	_ = g.Wait()

	s.metrics.SearchServed(outcome.Path, time.Since(start))
	s.record(ctx, params.Text, outcome.Path, len(results))
	log.WithFields(log.Fields{
		"query":   params.Text,
		"path":    outcome.Path,
		"results": len(results),
		"elapsed": time.Since(start).String(),
	}).Debug("search completed")
	return results, nil
}

// summarize falls back to the truncated body if the summarizer returns an error anyway.
func (s *SearchService) summarize(ctx context.Context, body, query string) string {
	if s.summarizer == nil {
		return summarize.Truncate(body)
	}
	summary, err := s.summarizer.Summarize(ctx, body, query, s.cfg.SummarySentences)
	if err != nil || summary == "" {
		log.WithError(err).Debug("summary unavailable, using truncated body")
		s.metrics.SummaryDegraded()
		return summarize.Truncate(body)
	}
	return summary
}

func (s *SearchService) record(ctx context.Context, text, path string, n int) {
	if s.history == nil {
		return
	}
	q := &models.SearchQuery{Query: text, Path: path, ResultsCount: n}
	if err := s.history.RecordSearchQuery(ctx, q); err != nil {
		log.WithError(err).WithField("query", text).Warn("failed to record search query")
	}
}
