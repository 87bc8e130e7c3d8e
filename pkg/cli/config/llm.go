package config

import (
	"context"
	"log/slog"

	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/service/completion"
	"github.com/competeai/competeai/pkg/service/embedding"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// LLM holds CLI flags for the completion and embedding providers
type LLM struct {
	provider        string
	completionModel string

	openaiAPIKey   string
	deepseekAPIKey string
	geminiProject  string
	geminiLocation string

	embeddingProvider  string
	embeddingModel     string
	embeddingDimension int

	priceFile string
}

// Flags returns CLI flags for provider configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "Completion provider (openai, deepseek, gemini)",
			Value:       completion.ProviderOpenAI,
			Category:    "LLM",
			Sources:     cli.EnvVars("COMPETEAI_LLM_PROVIDER"),
			Destination: &l.provider,
		},
		&cli.StringFlag{
			Name:        "completion-model",
			Usage:       "Override the completion model of the provider",
			Category:    "LLM",
			Sources:     cli.EnvVars("COMPETEAI_COMPLETION_MODEL"),
			Destination: &l.completionModel,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("COMPETEAI_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &l.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "deepseek-api-key",
			Usage:       "DeepSeek API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("COMPETEAI_DEEPSEEK_API_KEY", "DEEPSEEK_API_KEY"),
			Destination: &l.deepseekAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Category:    "LLM",
			Sources:     cli.EnvVars("COMPETEAI_GEMINI_PROJECT"),
			Destination: &l.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Category:    "LLM",
			Sources:     cli.EnvVars("COMPETEAI_GEMINI_LOCATION"),
			Destination: &l.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "embedding-provider",
			Usage:       "Embedding provider (openai, gemini)",
			Value:       completion.ProviderOpenAI,
			Category:    "LLM",
			Sources:     cli.EnvVars("COMPETEAI_EMBEDDING_PROVIDER"),
			Destination: &l.embeddingProvider,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Embedding model",
			Value:       model.DefaultEmbeddingModel,
			Category:    "LLM",
			Sources:     cli.EnvVars("COMPETEAI_EMBEDDING_MODEL"),
			Destination: &l.embeddingModel,
		},
		&cli.IntFlag{
			Name:        "embedding-dimension",
			Usage:       "Embedding vector dimension. Stored vectors of any other length are rejected",
			Value:       model.EmbeddingDimension,
			Category:    "LLM",
			Sources:     cli.EnvVars("COMPETEAI_EMBEDDING_DIMENSION"),
			Destination: &l.embeddingDimension,
		},
		&cli.StringFlag{
			Name:        "price-file",
			Usage:       "TOML file overriding the per-million token prices",
			Category:    "LLM",
			Sources:     cli.EnvVars("COMPETEAI_PRICE_FILE"),
			Destination: &l.priceFile,
		},
	}
}

// LogValue implements slog.LogValuer. Credentials are reported as set or unset only.
func (l LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", l.provider),
		slog.String("completion_model", l.completionModel),
		slog.Bool("openai_key", l.openaiAPIKey != ""),
		slog.Bool("deepseek_key", l.deepseekAPIKey != ""),
		slog.String("gemini_project", l.geminiProject),
		slog.String("embedding_provider", l.embeddingProvider),
		slog.String("embedding_model", l.embeddingModel),
		slog.Int("embedding_dimension", l.embeddingDimension),
		slog.String("price_file", l.priceFile),
	)
}

// Providers returns the provider table with price overrides applied
func (l *LLM) Providers() ([]completion.Provider, error) {
	prices, err := l.prices()
	if err != nil {
		return nil, err
	}

	providers := completion.Providers()
	for i := range providers {
		if p, ok := prices[providers[i].ID]; ok {
			providers[i].Price = p
		}
	}
	return providers, nil
}

// Provider returns the selected completion provider with model and price overrides applied
func (l *LLM) Provider() (completion.Provider, error) {
	p, err := completion.LookupProvider(l.provider)
	if err != nil {
		return completion.Provider{}, goerr.Wrap(ErrUnknownProvider, err.Error(), goerr.V(ProviderKey, l.provider))
	}

	prices, err := l.prices()
	if err != nil {
		return completion.Provider{}, err
	}
	if price, ok := prices[p.ID]; ok {
		p.Price = price
	}
	if l.completionModel != "" {
		p.Model = l.completionModel
	}
	return p, nil
}

func (l *LLM) prices() (map[string]completion.Price, error) {
	if l.priceFile == "" {
		return nil, nil
	}
	return LoadPriceTable(l.priceFile)
}

// Completer builds the completion service. It returns nil without error when the selected
// provider has no credential, so that callers report the missing configuration per request.
func (l *LLM) Completer(ctx context.Context) (interfaces.Completer, error) {
	provider, err := l.Provider()
	if err != nil {
		return nil, err
	}

	factory := l.clientFactory(provider)
	if factory == nil {
		logging.From(ctx).Warn("Completion provider has no credential, AI answers are disabled",
			"provider", provider.ID)
		return nil, nil
	}

	svc, err := completion.New(factory, provider)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create completion service", goerr.V(ProviderKey, provider.ID))
	}
	return svc, nil
}

func (l *LLM) clientFactory(provider completion.Provider) completion.ClientFactory {
	switch provider.ID {
	case completion.ProviderOpenAI, completion.ProviderDeepSeek:
		apiKey := l.openaiAPIKey
		if provider.ID == completion.ProviderDeepSeek {
			apiKey = l.deepseekAPIKey
		}
		if apiKey == "" {
			return nil
		}
		return func(ctx context.Context, params completion.Params) (gollem.LLMClient, error) {
			opts := []openai.Option{
				openai.WithModel(provider.Model),
				openai.WithTemperature(params.Temperature),
				openai.WithMaxTokens(params.MaxTokens),
			}
			if provider.BaseURL != "" {
				opts = append(opts, openai.WithBaseURL(provider.BaseURL))
			}
			client, err := openai.New(ctx, apiKey, opts...)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to create OpenAI client", goerr.V(ProviderKey, provider.ID))
			}
			return client, nil
		}

	case completion.ProviderGemini:
		if l.geminiProject == "" {
			return nil
		}
		return func(ctx context.Context, params completion.Params) (gollem.LLMClient, error) {
			client, err := gemini.New(ctx, l.geminiProject, l.geminiLocation,
				gemini.WithModel(provider.Model),
				gemini.WithTemperature(params.Temperature),
				gemini.WithMaxTokens(int32(params.MaxTokens)),
			)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to create Gemini client", goerr.V(ProviderKey, provider.ID))
			}
			return client, nil
		}
	}

	return nil
}

// Embedder builds the embedding generator. Like Completer it returns nil without error
// when the embedding provider has no credential.
func (l *LLM) Embedder(ctx context.Context, opts ...embedding.Option) (interfaces.Embedder, error) {
	var client gollem.LLMClient
	switch l.embeddingProvider {
	case completion.ProviderOpenAI:
		if l.openaiAPIKey == "" {
			logging.From(ctx).Warn("OpenAI API key is not set, embeddings are disabled")
			return nil, nil
		}
		c, err := openai.New(ctx, l.openaiAPIKey, openai.WithEmbeddingModel(l.embeddingModel))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI embedding client")
		}
		client = c

	case completion.ProviderGemini:
		if l.geminiProject == "" {
			logging.From(ctx).Warn("Gemini project is not set, embeddings are disabled")
			return nil, nil
		}
		c, err := gemini.New(ctx, l.geminiProject, l.geminiLocation, gemini.WithEmbeddingModel(l.embeddingModel))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini embedding client")
		}
		client = c

	default:
		return nil, goerr.Wrap(ErrUnknownProvider, "unsupported embedding provider",
			goerr.V(ProviderKey, l.embeddingProvider))
	}

	opts = append([]embedding.Option{
		embedding.WithModelName(l.embeddingModel),
		embedding.WithDimension(l.embeddingDimension),
	}, opts...)

	gen, err := embedding.New(client, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create embedding generator")
	}
	return gen, nil
}
