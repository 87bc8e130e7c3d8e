package config

import (
	"log/slog"
	"time"

	"github.com/competeai/competeai/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// RAG holds CLI flags for the search pipeline
type RAG struct {
	defaultLimit      int
	maxLimit          int
	temperature       float64
	maxTokens         int
	embedTimeout      time.Duration
	storeTimeout      time.Duration
	completionTimeout time.Duration
}

// Flags returns CLI flags for search configuration
func (r *RAG) Flags() []cli.Flag {
	def := usecase.DefaultSearchConfig()
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "search-default-limit",
			Usage:       "Documents retrieved when a request gives no limit",
			Value:       def.DefaultLimit,
			Category:    "Search",
			Sources:     cli.EnvVars("COMPETEAI_SEARCH_DEFAULT_LIMIT"),
			Destination: &r.defaultLimit,
		},
		&cli.IntFlag{
			Name:        "search-max-limit",
			Usage:       "Upper bound of the requested limit",
			Value:       def.MaxLimit,
			Category:    "Search",
			Sources:     cli.EnvVars("COMPETEAI_SEARCH_MAX_LIMIT"),
			Destination: &r.maxLimit,
		},
		&cli.FloatFlag{
			Name:        "search-temperature",
			Usage:       "Sampling temperature of the answer",
			Value:       float64(def.Temperature),
			Category:    "Search",
			Sources:     cli.EnvVars("COMPETEAI_SEARCH_TEMPERATURE"),
			Destination: &r.temperature,
		},
		&cli.IntFlag{
			Name:        "search-max-tokens",
			Usage:       "Output token budget of the answer",
			Value:       def.MaxTokens,
			Category:    "Search",
			Sources:     cli.EnvVars("COMPETEAI_SEARCH_MAX_TOKENS"),
			Destination: &r.maxTokens,
		},
		&cli.DurationFlag{
			Name:        "embed-timeout",
			Usage:       "Timeout of the query embedding call",
			Value:       def.EmbedTimeout,
			Category:    "Search",
			Sources:     cli.EnvVars("COMPETEAI_EMBED_TIMEOUT"),
			Destination: &r.embedTimeout,
		},
		&cli.DurationFlag{
			Name:        "store-timeout",
			Usage:       "Timeout of the similarity query",
			Value:       def.StoreTimeout,
			Category:    "Search",
			Sources:     cli.EnvVars("COMPETEAI_STORE_TIMEOUT"),
			Destination: &r.storeTimeout,
		},
		&cli.DurationFlag{
			Name:        "completion-timeout",
			Usage:       "Timeout of the completion call",
			Value:       def.CompletionTimeout,
			Category:    "Search",
			Sources:     cli.EnvVars("COMPETEAI_COMPLETION_TIMEOUT"),
			Destination: &r.completionTimeout,
		},
	}
}

// LogValue implements slog.LogValuer
func (r RAG) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("default_limit", r.defaultLimit),
		slog.Int("max_limit", r.maxLimit),
		slog.Float64("temperature", r.temperature),
		slog.Int("max_tokens", r.maxTokens),
		slog.Duration("embed_timeout", r.embedTimeout),
		slog.Duration("store_timeout", r.storeTimeout),
		slog.Duration("completion_timeout", r.completionTimeout),
	)
}

// Configure validates the flags and returns the search configuration
func (r *RAG) Configure() (usecase.SearchConfig, error) {
	cfg := usecase.SearchConfig{
		DefaultLimit:      r.defaultLimit,
		MaxLimit:          r.maxLimit,
		Temperature:       float32(r.temperature),
		MaxTokens:         r.maxTokens,
		EmbedTimeout:      r.embedTimeout,
		StoreTimeout:      r.storeTimeout,
		CompletionTimeout: r.completionTimeout,
	}

	if cfg.MaxLimit < 1 {
		return cfg, goerr.Wrap(ErrInvalidConfig, "search-max-limit must be positive", goerr.V("max_limit", cfg.MaxLimit))
	}
	if cfg.DefaultLimit < 1 || cfg.DefaultLimit > cfg.MaxLimit {
		return cfg, goerr.Wrap(ErrInvalidConfig, "search-default-limit must be between 1 and search-max-limit",
			goerr.V("default_limit", cfg.DefaultLimit), goerr.V("max_limit", cfg.MaxLimit))
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return cfg, goerr.Wrap(ErrInvalidConfig, "search-temperature must be between 0 and 2",
			goerr.V("temperature", cfg.Temperature))
	}
	if cfg.MaxTokens < 1 {
		return cfg, goerr.Wrap(ErrInvalidConfig, "search-max-tokens must be positive", goerr.V("max_tokens", cfg.MaxTokens))
	}
	for name, d := range map[string]time.Duration{
		"embed-timeout":      cfg.EmbedTimeout,
		"store-timeout":      cfg.StoreTimeout,
		"completion-timeout": cfg.CompletionTimeout,
	} {
		if d <= 0 {
			return cfg, goerr.Wrap(ErrInvalidConfig, "timeout must be positive", goerr.V("flag", name), goerr.V("value", d))
		}
	}

	return cfg, nil
}
