package cli

import (
	"context"

	"github.com/competeai/competeai/pkg/cli/config"
	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/service/embedding"
	"github.com/competeai/competeai/pkg/usecase"
	"github.com/competeai/competeai/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
)

// providers are the hosted model clients shared by commands. Either may be nil when
// its credential is missing.
type providers struct {
	embedder  interfaces.Embedder
	completer interfaces.Completer
}

func configureProviders(ctx context.Context, llmCfg *config.LLM, embeddingOpts ...embedding.Option) (*providers, error) {
	embedder, err := llmCfg.Embedder(ctx, embeddingOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure embedding provider")
	}
	completer, err := llmCfg.Completer(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure completion provider")
	}

	return &providers{embedder: embedder, completer: completer}, nil
}

// useCaseOptions turns nil providers into absent options so that use cases see a nil interface
func (p *providers) useCaseOptions(m *metrics.Metrics) []usecase.Option {
	var opts []usecase.Option
	if p.embedder != nil {
		opts = append(opts, usecase.WithEmbedder(p.embedder))
	}
	if p.completer != nil {
		opts = append(opts, usecase.WithCompleter(p.completer))
	}
	if m != nil {
		opts = append(opts, usecase.WithMetrics(m))
	}
	return opts
}
