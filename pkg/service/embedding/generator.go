// Package embedding converts text into vectors with a hosted embedding model.
package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

var (
	// ErrEmbeddingGenerationFailed wraps every failure reported by the provider
	ErrEmbeddingGenerationFailed = goerr.New("embedding generation failed")
	ErrEmptyText                 = goerr.New("text is empty")
)

const (
	DefaultBatchSize    = 100
	DefaultChunkDelay   = 100 * time.Millisecond
	DefaultRetryBackoff = 5 * time.Second
)

// Generator implements interfaces.Embedder over a gollem LLM client
type Generator struct {
	llmClient    gollem.LLMClient
	dimension    int
	modelName    string
	chunkDelay   time.Duration
	retryBackoff time.Duration
}

var _ interfaces.Embedder = (*Generator)(nil)

// Option is a functional option for Generator configuration
type Option func(*Generator)

// WithDimension sets the vector length requested from and expected of the provider
func WithDimension(dim int) Option {
	return func(g *Generator) {
		g.dimension = dim
	}
}

// WithModelName sets the model name recorded on embeddings
func WithModelName(name string) Option {
	return func(g *Generator) {
		g.modelName = name
	}
}

// WithChunkDelay sets the pause between two chunks of a batch
func WithChunkDelay(d time.Duration) Option {
	return func(g *Generator) {
		g.chunkDelay = d
	}
}

// WithRetryBackoff sets the wait before retrying a rate limited chunk
func WithRetryBackoff(d time.Duration) Option {
	return func(g *Generator) {
		g.retryBackoff = d
	}
}

// New creates a Generator with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (*Generator, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	g := &Generator{
		llmClient:    llmClient,
		dimension:    model.EmbeddingDimension,
		modelName:    model.DefaultEmbeddingModel,
		chunkDelay:   DefaultChunkDelay,
		retryBackoff: DefaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.dimension <= 0 {
		return nil, goerr.New("embedding dimension must be positive", goerr.V("dimension", g.dimension))
	}

	return g, nil
}

// Model returns the embedding model name
func (g *Generator) Model() string {
	return g.modelName
}

// Dimension returns the vector length produced by the generator
func (g *Generator) Dimension() int {
	return g.dimension
}

// Embed converts a single text. It makes exactly one provider call and never retries.
func (g *Generator) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyText, "cannot embed empty text")
	}

	vectors, err := g.generate(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// EmbedBatch converts texts in chunks of at most batchSize, pausing between chunks.
// A rate limited chunk is retried once; any other failure aborts the remaining chunks.
func (g *Generator) EmbedBatch(ctx context.Context, texts []string, batchSize int) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, goerr.Wrap(ErrEmptyText, "cannot embed empty text", goerr.V("index", i))
		}
	}

	results := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))

		if start > 0 {
			if err := sleep(ctx, g.chunkDelay); err != nil {
				return nil, goerr.Wrap(err, "interrupted between chunks", goerr.V("start", start))
			}
		}

		vectors, err := g.generateWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, goerr.Wrap(err, "failed to embed chunk",
				goerr.V("start", start),
				goerr.V("end", end),
				goerr.V("total", len(texts)))
		}

		results = append(results, vectors...)
	}

	return results, nil
}

func (g *Generator) generateWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32

	operation := func() error {
		v, err := g.generate(ctx, texts)
		if err != nil {
			if !IsRateLimited(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		vectors = v
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(g.retryBackoff), 1),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		logging.From(ctx).Warn("Embedding provider rate limited, retrying",
			"wait", wait,
			"texts", len(texts),
			"error", err.Error(),
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}

	return vectors, nil
}

func (g *Generator) generate(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings, err := g.llmClient.GenerateEmbedding(ctx, g.dimension, texts)
	if err != nil {
		return nil, goerr.Wrap(providerError(err), "failed to generate embedding",
			goerr.V("model", g.modelName),
			goerr.V("texts", len(texts)))
	}

	if len(embeddings) != len(texts) {
		return nil, goerr.Wrap(ErrEmbeddingGenerationFailed, "provider returned unexpected number of embeddings",
			goerr.V("expected", len(texts)),
			goerr.V("actual", len(embeddings)))
	}

	vectors := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		if len(emb) != g.dimension {
			return nil, goerr.Wrap(model.ErrDimensionMismatch, "provider returned embedding of unexpected length",
				goerr.V("expected", g.dimension),
				goerr.V("actual", len(emb)),
				goerr.V("index", i))
		}

		// Convert float64 to float32
		v := make([]float32, len(emb))
		for j, x := range emb {
			v[j] = float32(x)
		}
		vectors[i] = v
	}

	return vectors, nil
}

// providerError keeps both the sentinel and the provider cause in the chain
func providerError(err error) error {
	return fmt.Errorf("%w: %w", ErrEmbeddingGenerationFailed, err)
}

// IsRateLimited reports whether err looks like a provider rate limit response
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
