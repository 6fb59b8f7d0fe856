package app

import (
	"context"
	"fmt"

	"folio/internal/config"
	"folio/internal/metrics"
	"folio/internal/search"
	"folio/internal/services"
	"folio/internal/store/primary"
	"folio/internal/transformer/summarize"
	"folio/internal/validate"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

type App struct {
	Config *config.Config

	Store    *primary.StoreImpl
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// Summarizer never fails: provider errors degrade to a truncated body.
	Summarizer summarize.Summarizer

	SearchService  *services.SearchService
	ContentService *services.ContentService

	closers []func() error
}

// NewApp connects to the database and builds every service.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	ps, err := primary.NewPrimaryStore(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("init primary store: %w", err)
	}
	a, err := NewWithStore(ctx, cfg, ps)
	if err != nil {
		ps.Close()
		return nil, err
	}
	log.Info("Application initialization complete.")
	return a, nil
}

// NewWithStore builds the app around an existing store.
func NewWithStore(ctx context.Context, cfg *config.Config, ps *primary.StoreImpl) (*App, error) {
	a := &App{Config: cfg, Store: ps}
	a.initMetrics()
	if err := a.initSummarizer(ctx); err != nil {
		a.closeClients()
		return nil, err
	}
	a.initCoreServices()
	return a, nil
}

// --- Private Helper Methods ---

func (a *App) initMetrics() {
	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.Registry)
}

func (a *App) initSummarizer(ctx context.Context) error {
	cfg := a.Config.Summarization

	extractive, err := summarize.NewExtractive()
	if err != nil {
		return fmt.Errorf("init extractive summarizer: %w", err)
	}

	var base summarize.Summarizer = extractive
	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderGemini:
		prompt, err := config.LoadPromptContent(cfg.Prompt)
		if err != nil {
			return fmt.Errorf("load summarization prompt: %w", err)
		}
		if cfg.Provider == config.ProviderOpenAI {
			s, err := summarize.NewOpenAI(cfg.OpenaiApiKey, cfg.Model, prompt)
			if err != nil {
				return err
			}
			base = s
		} else {
			s, err := summarize.NewGemini(ctx, cfg.GoogleApiKey, cfg.Model, prompt)
			if err != nil {
				return err
			}
			a.closers = append(a.closers, s.Close)
			base = s
		}
		log.WithFields(log.Fields{"provider": cfg.Provider, "model": cfg.Model}).Info("Initialized LLM summarizer")
	default:
		log.Debug("Using extractive summarizer")
	}

	a.Summarizer = summarize.NewDegrading(base, a.Metrics)
	return nil
}

func (a *App) initCoreServices() {
	sc := a.Config.Search
	a.SearchService = services.NewSearchService(
		search.NewStoreChain(a.Store),
		a.Summarizer,
		a.Metrics,
		services.SearchConfig{
			DefaultLimit:     sc.DefaultLimit,
			MaxLimit:         sc.MaxLimit,
			Timeout:          sc.Timeout,
			SummarySentences: sc.SummarySentences,
			Concurrency:      sc.SummaryConcurrency,
		},
	).WithHistory(a.Store)
	a.ContentService = services.NewContentService(a.Store, validate.New())
}

// Close releases provider clients and the database pool.
func (a *App) Close() {
	a.closeClients()
	if a.Store != nil {
		a.Store.Close()
	}
}

func (a *App) closeClients() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.WithError(err).Warn("error closing client")
		}
	}
	a.closers = nil
}
