package interfaces

import (
	"context"

	"github.com/competeai/competeai/pkg/domain/model"
)

// Embedder converts text into vectors with a hosted embedding model
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string, batchSize int) ([][]float32, error)
	Model() string
	Dimension() int
}

// Completer generates text with a hosted completion model
type Completer interface {
	Complete(ctx context.Context, req model.CompletionRequest) (*model.Completion, error)
}
