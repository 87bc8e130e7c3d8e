package config_test

import (
	"testing"

	"github.com/competeai/competeai/pkg/cli/config"
	"github.com/competeai/competeai/pkg/service/completion"
	"github.com/m-mizutani/gt"
)

func TestLoadPriceTable(t *testing.T) {
	t.Run("overrides known providers", func(t *testing.T) {
		path := writeFile(t, "prices.toml", `
[openai]
input_per_million = 0.2
output_per_million = 0.8
`)
		table, err := config.LoadPriceTable(path)
		gt.NoError(t, err).Required()
		gt.Value(t, table[completion.ProviderOpenAI]).Equal(completion.Price{InputPerMillion: 0.2, OutputPerMillion: 0.8})
	})

	t.Run("unknown provider", func(t *testing.T) {
		path := writeFile(t, "prices.toml", `
[mystery]
input_per_million = 1.0
`)
		_, err := config.LoadPriceTable(path)
		gt.Error(t, err).Is(config.ErrUnknownProvider)
	})

	t.Run("negative price", func(t *testing.T) {
		path := writeFile(t, "prices.toml", `
[deepseek]
input_per_million = -1.0
`)
		_, err := config.LoadPriceTable(path)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestLLMProvider(t *testing.T) {
	t.Run("built-in provider", func(t *testing.T) {
		cfg := config.NewLLMForTest(completion.ProviderDeepSeek, "", "key", "", completion.ProviderOpenAI, "")
		p, err := cfg.Provider()
		gt.NoError(t, err).Required()
		gt.Value(t, p.Model).Equal("deepseek-chat")
		gt.Value(t, p.BaseURL).Equal("https://api.deepseek.com")
	})

	t.Run("price override", func(t *testing.T) {
		path := writeFile(t, "prices.toml", `
[openai]
input_per_million = 1.0
output_per_million = 2.0
`)
		cfg := config.NewLLMForTest(completion.ProviderOpenAI, "key", "", "", completion.ProviderOpenAI, path)
		p, err := cfg.Provider()
		gt.NoError(t, err).Required()
		gt.Value(t, p.Price).Equal(completion.Price{InputPerMillion: 1.0, OutputPerMillion: 2.0})

		providers, err := cfg.Providers()
		gt.NoError(t, err).Required()
		gt.Array(t, providers).Length(3)
		for _, provider := range providers {
			if provider.ID == completion.ProviderOpenAI {
				gt.Value(t, provider.Price.InputPerMillion).Equal(1.0)
			} else {
				gt.Value(t, provider.Price.InputPerMillion).NotEqual(1.0)
			}
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := config.NewLLMForTest("mystery", "key", "", "", completion.ProviderOpenAI, "")
		_, err := cfg.Provider()
		gt.Error(t, err).Is(config.ErrUnknownProvider)
	})
}

func TestLLMWithoutCredentials(t *testing.T) {
	t.Run("completer is nil interface without API key", func(t *testing.T) {
		cfg := config.NewLLMForTest(completion.ProviderOpenAI, "", "", "", completion.ProviderOpenAI, "")
		completer, err := cfg.Completer(t.Context())
		gt.NoError(t, err)
		gt.Bool(t, completer == nil).True()
	})

	t.Run("deepseek needs its own key", func(t *testing.T) {
		cfg := config.NewLLMForTest(completion.ProviderDeepSeek, "openai-key", "", "", completion.ProviderOpenAI, "")
		completer, err := cfg.Completer(t.Context())
		gt.NoError(t, err)
		gt.Bool(t, completer == nil).True()
	})

	t.Run("gemini needs a project", func(t *testing.T) {
		cfg := config.NewLLMForTest(completion.ProviderGemini, "", "", "", completion.ProviderGemini, "")
		completer, err := cfg.Completer(t.Context())
		gt.NoError(t, err)
		gt.Bool(t, completer == nil).True()

		embedder, err := cfg.Embedder(t.Context())
		gt.NoError(t, err)
		gt.Bool(t, embedder == nil).True()
	})

	t.Run("embedder is nil interface without API key", func(t *testing.T) {
		cfg := config.NewLLMForTest(completion.ProviderOpenAI, "", "", "", completion.ProviderOpenAI, "")
		embedder, err := cfg.Embedder(t.Context())
		gt.NoError(t, err)
		gt.Bool(t, embedder == nil).True()
	})

	t.Run("unsupported embedding provider", func(t *testing.T) {
		cfg := config.NewLLMForTest(completion.ProviderOpenAI, "key", "", "", completion.ProviderDeepSeek, "")
		_, err := cfg.Embedder(t.Context())
		gt.Error(t, err).Is(config.ErrUnknownProvider)
	})
}
