package model

import "github.com/competeai/competeai/pkg/domain/types"

// QueryResult is the answer produced by the search pipeline. It is never persisted.
type QueryResult struct {
	Answer        string      `json:"answer"`
	Sources       []Source    `json:"sources"`
	Query         string      `json:"query"`
	Model         string      `json:"model,omitempty"`
	TokensUsed    *TokenUsage `json:"tokensUsed,omitempty"`
	EstimatedCost *float64    `json:"estimatedCost,omitempty"`
}

// Source is a retrieved record cited by an answer
type Source struct {
	Type      types.ContentType `json:"type"`
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	URL       string            `json:"url"`
	Metadata  map[string]any    `json:"metadata"`
	Relevance float64           `json:"relevance"`
}

// TokenUsage is the token count reported by a completion call
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// Total returns the sum of input and output tokens
func (u TokenUsage) Total() int {
	return u.Input + u.Output
}
