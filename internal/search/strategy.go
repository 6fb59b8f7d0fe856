// Package search runs content queries through an ordered chain of strategies.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"folio/internal/metrics"
	"folio/internal/store"

	log "github.com/sirupsen/logrus"
)

// Strategy is one way of answering a query. An empty result lets the next strategy try.
type Strategy interface {
	Name() string
	TryQuery(ctx context.Context, text string, limit int) ([]store.ScoredContent, error)
}

// Outcome is what a Chain returns: the matches and the strategy that produced them.
// Path is metrics.PathNone when every strategy came back empty.
type Outcome struct {
	Items []store.ScoredContent
	Path  string
}

// Chain tries strategies in order and returns the first non-empty result.
type Chain struct {
	strategies []Strategy
}

func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// NewStoreChain is the standard relevance-then-substring chain over a content searcher.
func NewStoreChain(cs store.ContentSearcher) *Chain {
	return NewChain(NewRelevanceStrategy(cs), NewSubstringStrategy(cs))
}

// Search stops at the first strategy error; later strategies are not consulted.
func (c *Chain) Search(ctx context.Context, text string, limit int) (Outcome, error) {
	for _, s := range c.strategies {
		items, err := s.TryQuery(ctx, text, limit)
		if err != nil {
			return Outcome{}, fmt.Errorf("%s search: %w", s.Name(), err)
		}
		if len(items) > 0 {
			if len(items) > limit {
				items = items[:limit]
			}
			return Outcome{Items: items, Path: s.Name()}, nil
		}
		log.WithFields(log.Fields{"strategy": s.Name(), "query": text}).Debug("search strategy returned no results")
	}
	return Outcome{Items: []store.ScoredContent{}, Path: metrics.PathNone}, nil
}

// RelevanceStrategy ranks matches with the store's full-text index.
type RelevanceStrategy struct {
	store      store.ContentSearcher
	indexReady atomic.Bool
}

func NewRelevanceStrategy(cs store.ContentSearcher) *RelevanceStrategy {
	return &RelevanceStrategy{store: cs}
}

func (r *RelevanceStrategy) Name() string { return metrics.PathPrimary }

func (r *RelevanceStrategy) TryQuery(ctx context.Context, text string, limit int) ([]store.ScoredContent, error) {
	r.ensureIndex(ctx)
	return r.store.RelevanceSearch(ctx, text, limit)
}

// ensureIndex never fails the search. Once the index is known to exist it is not re-issued.
func (r *RelevanceStrategy) ensureIndex(ctx context.Context) {
	if r.indexReady.Load() {
		return
	}
	err := r.store.EnsureTextIndex(ctx)
	switch {
	case err == nil:
		r.indexReady.Store(true)
	case errors.Is(err, store.ErrIndexExists):
		log.Debug("text index already exists")
		r.indexReady.Store(true)
	default:
		log.WithError(err).Warn("failed to ensure text index, continuing with search")
	}
}

// SubstringStrategy matches the raw query text inside fields and tags. Results carry no score.
type SubstringStrategy struct {
	store store.ContentSearcher
}

func NewSubstringStrategy(cs store.ContentSearcher) *SubstringStrategy {
	return &SubstringStrategy{store: cs}
}

func (s *SubstringStrategy) Name() string { return metrics.PathFallback }

func (s *SubstringStrategy) TryQuery(ctx context.Context, text string, limit int) ([]store.ScoredContent, error) {
	items, err := s.store.SubstringSearch(ctx, text, limit)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Score = 0
	}
	if len(items) > 0 {
		log.WithFields(log.Fields{"query": text, "count": len(items)}).Info("relevance search empty, served substring matches")
	}
	return items, nil
}
