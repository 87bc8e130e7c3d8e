package config

import "time"

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider, openaiKey, deepseekKey, geminiProject, embeddingProvider, priceFile string) *LLM {
	return &LLM{
		provider:           provider,
		openaiAPIKey:       openaiKey,
		deepseekAPIKey:     deepseekKey,
		geminiProject:      geminiProject,
		geminiLocation:     "us-central1",
		embeddingProvider:  embeddingProvider,
		embeddingModel:     "text-embedding-3-small",
		embeddingDimension: 1536,
		priceFile:          priceFile,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, postgresDSN string) *Repository {
	return &Repository{
		backend:     backend,
		projectID:   projectID,
		postgresDSN: postgresDSN,
	}
}

// NewRAGForTest creates a RAG config for testing purposes
func NewRAGForTest(defaultLimit, maxLimit int, temperature float64, maxTokens int, timeout time.Duration) *RAG {
	return &RAG{
		defaultLimit:      defaultLimit,
		maxLimit:          maxLimit,
		temperature:       temperature,
		maxTokens:         maxTokens,
		embedTimeout:      timeout,
		storeTimeout:      timeout,
		completionTimeout: timeout,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

var ParseLevel = parseLevel
