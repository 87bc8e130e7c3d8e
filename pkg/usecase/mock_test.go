package usecase_test

import (
	"context"
	"strings"
	"sync"

	"github.com/competeai/competeai/pkg/domain/model"
)

const mockDimension = 8

// keywordVector maps a text onto a small fixed vocabulary so that related texts are close
func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, mockDimension)
	for i, kw := range []string{"breast", "lung", "phase 3", "oncology", "approval"} {
		if strings.Contains(lower, kw) {
			v[i] = 1
		}
	}
	v[mockDimension-1] = 0.1
	return v
}

type mockEmbedder struct {
	mu      sync.Mutex
	calls   int
	texts   []string
	embedFn func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.texts = append(m.texts, text)
	fn := m.embedFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	return keywordVector(text), nil
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return m.embed(ctx, text)
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string, batchSize int) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := m.embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

func (m *mockEmbedder) Model() string  { return "mock-embedding" }
func (m *mockEmbedder) Dimension() int { return mockDimension }

func (m *mockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockCompleter struct {
	mu         sync.Mutex
	requests   []model.CompletionRequest
	completeFn func(ctx context.Context, req model.CompletionRequest) (*model.Completion, error)
}

func (m *mockCompleter) Complete(ctx context.Context, req model.CompletionRequest) (*model.Completion, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.completeFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return &model.Completion{
		Text:          "According to Document 1, a Phase 3 trial in metastatic breast cancer is recruiting.",
		Model:         "mock-model",
		Usage:         model.TokenUsage{Input: 1200, Output: 40},
		EstimatedCost: 0.000204,
	}, nil
}

func (m *mockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockCompleter) LastRequest() model.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return model.CompletionRequest{}
	}
	return m.requests[len(m.requests)-1]
}
