package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Server struct {
		Addr        string   `mapstructure:"addr"`
		Port        int      `mapstructure:"port"`
		CorsOrigins []string `mapstructure:"cors_origins"`
		RateLimit   float64  `mapstructure:"rate_limit"` // requests per second per client IP; 0 disables
		RateBurst   int      `mapstructure:"rate_burst"`
	} `mapstructure:"server"`

	Search struct {
		DefaultLimit       int           `mapstructure:"default_limit"`
		MaxLimit           int           `mapstructure:"max_limit"`
		Timeout            time.Duration `mapstructure:"timeout"`
		SummarySentences   int           `mapstructure:"summary_sentences"`
		SummaryConcurrency int           `mapstructure:"summary_concurrency"`
	} `mapstructure:"search"`

	Summarization struct {
		Provider     string `mapstructure:"provider"` // "extractive", "openai" or "gemini"
		Model        string `mapstructure:"model"`
		Prompt       string `mapstructure:"prompt"` // prompt file for the LLM providers
		OpenaiApiKey string `mapstructure:"openai_api_key"`
		GoogleApiKey string `mapstructure:"google_api_key"`
	} `mapstructure:"summarization"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`
}

// Summarization providers.
const (
	ProviderExtractive = "extractive"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("search.default_limit", 5)
	v.SetDefault("search.max_limit", 50)
	v.SetDefault("search.timeout", 10*time.Second)
	v.SetDefault("search.summary_sentences", 3)
	v.SetDefault("search.summary_concurrency", 0)
	v.SetDefault("summarization.provider", ProviderExtractive)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads .env, then config.yaml (from configFile, or the working directory when empty),
// then FOLIO_* environment variables, which win over the file.
func LoadConfig(configFile string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.GetViper()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names are honoured alongside the prefixed ones.
	_ = v.BindEnv("database.dsn", "FOLIO_DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("server.port", "FOLIO_SERVER_PORT", "PORT")
	_ = v.BindEnv("summarization.openai_api_key", "FOLIO_SUMMARIZATION_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("summarization.google_api_key", "FOLIO_SUMMARIZATION_GOOGLE_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	config.Summarization.Provider = strings.ToLower(strings.TrimSpace(config.Summarization.Provider))
	return &config, nil
}

// ListenAddr is the host:port the HTTP server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}
