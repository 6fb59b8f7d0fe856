package config

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required (or set DATABASE_URL)")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
		return errors.New("server.rate_burst must be positive when server.rate_limit is set")
	}

	if c.Search.DefaultLimit <= 0 {
		return errors.New("search.default_limit must be a positive integer")
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search.max_limit (%d) must not be below search.default_limit (%d)", c.Search.MaxLimit, c.Search.DefaultLimit)
	}
	if c.Search.Timeout < 0 {
		return errors.New("search.timeout must not be negative")
	}
	if c.Search.SummarySentences <= 0 {
		return errors.New("search.summary_sentences must be a positive integer")
	}
	if c.Search.SummaryConcurrency < 0 {
		return errors.New("search.summary_concurrency must not be negative")
	}

	switch c.Summarization.Provider {
	case ProviderExtractive, "":
	case ProviderOpenAI:
		if c.Summarization.OpenaiApiKey == "" {
			return errors.New("summarization.openai_api_key is required when summarization.provider is openai")
		}
	case ProviderGemini:
		if c.Summarization.GoogleApiKey == "" {
			return errors.New("summarization.google_api_key is required when summarization.provider is gemini")
		}
	default:
		return fmt.Errorf("unknown summarization.provider %q (want extractive, openai or gemini)", c.Summarization.Provider)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
