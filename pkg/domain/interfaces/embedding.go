package interfaces

import (
	"context"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
)

// EmbeddingRepository defines the interface for the vector index.
// A zero ContentType filter matches every content type.
type EmbeddingRepository interface {
	// Upsert inserts the record or replaces content, embedding, metadata and model of the
	// record with the same (ContentType, ContentID). CreatedAt of an existing record is kept.
	Upsert(ctx context.Context, record *model.EmbeddingRecord) (*model.EmbeddingRecord, error)

	// Get retrieves a record by its natural key
	Get(ctx context.Context, contentType types.ContentType, contentID string) (*model.EmbeddingRecord, error)

	// Exists reports whether a record with the natural key is stored
	Exists(ctx context.Context, contentType types.ContentType, contentID string) (bool, error)

	// Query returns up to k records nearest to vector by cosine distance, nearest first
	Query(ctx context.Context, vector []float32, k int, filter types.ContentType) ([]*model.SearchHit, error)

	// Count returns the number of stored records matching filter
	Count(ctx context.Context, filter types.ContentType) (int, error)

	// ClearAll deletes every record and returns the number deleted
	ClearAll(ctx context.Context) (int, error)

	// ClearByType deletes every record of contentType and returns the number deleted
	ClearByType(ctx context.Context, contentType types.ContentType) (int, error)
}
