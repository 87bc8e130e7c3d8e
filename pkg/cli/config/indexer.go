package config

import (
	"log/slog"
	"time"

	"github.com/competeai/competeai/pkg/service/embedding"
	"github.com/competeai/competeai/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Indexer holds CLI flags for the batch indexer and the embedding batch path
type Indexer struct {
	itemDelay        time.Duration
	newsLimit        int
	progressInterval int
	chunkDelay       time.Duration
	retryBackoff     time.Duration
}

// Flags returns CLI flags for indexer configuration
func (x *Indexer) Flags() []cli.Flag {
	def := usecase.DefaultIndexConfig()
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "item-delay",
			Usage:       "Minimum interval between two embedding calls",
			Value:       def.ItemDelay,
			Category:    "Indexer",
			Sources:     cli.EnvVars("COMPETEAI_ITEM_DELAY"),
			Destination: &x.itemDelay,
		},
		&cli.IntFlag{
			Name:        "news-limit",
			Usage:       "Latest news articles visited when no limit is given",
			Value:       def.NewsLimit,
			Category:    "Indexer",
			Sources:     cli.EnvVars("COMPETEAI_NEWS_LIMIT"),
			Destination: &x.newsLimit,
		},
		&cli.IntFlag{
			Name:        "progress-interval",
			Usage:       "Processed items between two progress logs",
			Value:       def.ProgressInterval,
			Category:    "Indexer",
			Sources:     cli.EnvVars("COMPETEAI_PROGRESS_INTERVAL"),
			Destination: &x.progressInterval,
		},
		&cli.DurationFlag{
			Name:        "chunk-delay",
			Usage:       "Pause between two chunks of an embedding batch",
			Value:       embedding.DefaultChunkDelay,
			Category:    "Indexer",
			Sources:     cli.EnvVars("COMPETEAI_CHUNK_DELAY"),
			Destination: &x.chunkDelay,
		},
		&cli.DurationFlag{
			Name:        "retry-backoff",
			Usage:       "Wait before retrying a rate limited embedding chunk",
			Value:       embedding.DefaultRetryBackoff,
			Category:    "Indexer",
			Sources:     cli.EnvVars("COMPETEAI_RETRY_BACKOFF"),
			Destination: &x.retryBackoff,
		},
	}
}

// LogValue implements slog.LogValuer
func (x Indexer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("item_delay", x.itemDelay),
		slog.Int("news_limit", x.newsLimit),
		slog.Int("progress_interval", x.progressInterval),
		slog.Duration("chunk_delay", x.chunkDelay),
		slog.Duration("retry_backoff", x.retryBackoff),
	)
}

// Configure validates the flags and returns the indexer configuration
func (x *Indexer) Configure() (usecase.IndexConfig, error) {
	if x.itemDelay < 0 || x.chunkDelay < 0 || x.retryBackoff < 0 {
		return usecase.IndexConfig{}, goerr.Wrap(ErrInvalidConfig, "delays must not be negative",
			goerr.V("item_delay", x.itemDelay),
			goerr.V("chunk_delay", x.chunkDelay),
			goerr.V("retry_backoff", x.retryBackoff))
	}
	if x.newsLimit < 0 {
		return usecase.IndexConfig{}, goerr.Wrap(ErrInvalidConfig, "news-limit must not be negative",
			goerr.V("news_limit", x.newsLimit))
	}

	return usecase.IndexConfig{
		ItemDelay:        x.itemDelay,
		NewsLimit:        x.newsLimit,
		ProgressInterval: x.progressInterval,
	}, nil
}

// EmbeddingOptions returns the generator options controlled by the indexer flags
func (x *Indexer) EmbeddingOptions() []embedding.Option {
	return []embedding.Option{
		embedding.WithChunkDelay(x.chunkDelay),
		embedding.WithRetryBackoff(x.retryBackoff),
	}
}
