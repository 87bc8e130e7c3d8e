package usecase

import (
	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/utils/metrics"
)

type UseCases struct {
	repo      interfaces.Repository
	embedder  interfaces.Embedder
	completer interfaces.Completer
	metrics   *metrics.Metrics

	searchConfig SearchConfig
	indexConfig  IndexConfig

	Search    *SearchUseCase
	Index     *IndexUseCase
	Summarize *SummarizeUseCase
	Seed      *SeedUseCase
}

type Option func(*UseCases)

// WithEmbedder sets the embedding provider. Without it search and indexing report ErrProviderNotConfigured.
func WithEmbedder(embedder interfaces.Embedder) Option {
	return func(uc *UseCases) {
		uc.embedder = embedder
	}
}

// WithCompleter sets the completion provider. Without it search and summaries report ErrProviderNotConfigured.
func WithCompleter(completer interfaces.Completer) Option {
	return func(uc *UseCases) {
		uc.completer = completer
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UseCases) {
		uc.metrics = m
	}
}

func WithSearchConfig(cfg SearchConfig) Option {
	return func(uc *UseCases) {
		uc.searchConfig = cfg
	}
}

func WithIndexConfig(cfg IndexConfig) Option {
	return func(uc *UseCases) {
		uc.indexConfig = cfg
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:         repo,
		searchConfig: DefaultSearchConfig(),
		indexConfig:  DefaultIndexConfig(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Search = NewSearchUseCase(repo, uc.embedder, uc.completer, uc.searchConfig, uc.metrics)
	uc.Index = NewIndexUseCase(repo, uc.embedder, uc.indexConfig, uc.metrics)
	uc.Summarize = NewSummarizeUseCase(uc.completer, uc.metrics)
	uc.Seed = NewSeedUseCase(repo)

	return uc
}
