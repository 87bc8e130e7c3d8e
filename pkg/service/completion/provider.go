package completion

import (
	"fmt"
	"sort"
)

// Price is the cost of a model in USD per one million tokens
type Price struct {
	InputPerMillion  float64 `toml:"input_per_million" json:"input"`
	OutputPerMillion float64 `toml:"output_per_million" json:"output"`
}

// Cost returns the estimated USD cost of a call
func (p Price) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1_000_000*p.InputPerMillion +
		float64(outputTokens)/1_000_000*p.OutputPerMillion
}

// Provider describes a hosted completion model
type Provider struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Model       string `json:"model"`
	BaseURL     string `json:"-"`
	Price       Price  `json:"cost"`
}

const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
)

var defaultProviders = map[string]Provider{
	ProviderOpenAI: {
		ID:          ProviderOpenAI,
		DisplayName: "OpenAI GPT-4o-mini",
		Model:       "gpt-4o-mini",
		BaseURL:     "https://api.openai.com/v1",
		Price:       Price{InputPerMillion: 0.15, OutputPerMillion: 0.60},
	},
	ProviderDeepSeek: {
		ID:          ProviderDeepSeek,
		DisplayName: "DeepSeek-V3",
		Model:       "deepseek-chat",
		BaseURL:     "https://api.deepseek.com",
		Price:       Price{InputPerMillion: 0.14, OutputPerMillion: 0.28},
	},
	ProviderGemini: {
		ID:          ProviderGemini,
		DisplayName: "Gemini 2.0 Flash",
		Model:       "gemini-2.0-flash",
		Price:       Price{InputPerMillion: 0.10, OutputPerMillion: 0.40},
	},
}

// LookupProvider returns the built-in description of a provider
func LookupProvider(id string) (Provider, error) {
	p, ok := defaultProviders[id]
	if !ok {
		return Provider{}, fmt.Errorf("unknown completion provider: %s", id)
	}
	return p, nil
}

// Providers returns every built-in provider sorted by ID
func Providers() []Provider {
	out := make([]Provider, 0, len(defaultProviders))
	for _, p := range defaultProviders {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
