package model

// CompletionRequest is a single-turn prompt for a completion model
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int

	// FallbackText replaces an empty answer. The provider default is used when unset.
	FallbackText string
}

// Completion is the generated text with usage reported by the provider
type Completion struct {
	Text          string
	Model         string
	Usage         TokenUsage
	EstimatedCost float64
}
