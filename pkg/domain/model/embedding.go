package model

import (
	"time"

	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// EmbeddingDimension is the dimension of the embedding vector.
// OpenAI text-embedding-3-small uses 1536 dimensions.
const EmbeddingDimension = 1536

// DefaultEmbeddingModel is the embedding model the index is built with
const DefaultEmbeddingModel = "text-embedding-3-small"

var (
	ErrInvalidEmbeddingRecord = goerr.New("invalid embedding record")
	ErrDimensionMismatch      = goerr.New("embedding dimension mismatch")
)

// EmbeddingRecordID is a UUID-based identifier for EmbeddingRecord
type EmbeddingRecordID string

// NewEmbeddingRecordID generates a new UUID v4 EmbeddingRecordID
func NewEmbeddingRecordID() EmbeddingRecordID {
	return EmbeddingRecordID(uuid.New().String())
}

// EmbeddingRecord is the unit of the vector index. (ContentType, ContentID) is unique.
type EmbeddingRecord struct {
	ID          EmbeddingRecordID
	ContentType types.ContentType
	ContentID   string
	Content     string // exact text that was embedded
	Embedding   []float32
	Metadata    map[string]any
	Model       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the record can be stored. dimension <= 0 skips the length check.
func (r *EmbeddingRecord) Validate(dimension int) error {
	if !r.ContentType.IsValid() {
		return goerr.Wrap(ErrInvalidEmbeddingRecord, "invalid content type", goerr.V("content_type", r.ContentType))
	}
	if r.ContentID == "" {
		return goerr.Wrap(ErrInvalidEmbeddingRecord, "content ID is required", goerr.V("content_type", r.ContentType))
	}
	if len(r.Embedding) == 0 {
		return goerr.Wrap(ErrInvalidEmbeddingRecord, "embedding is required",
			goerr.V("content_type", r.ContentType),
			goerr.V("content_id", r.ContentID))
	}
	if dimension > 0 && len(r.Embedding) != dimension {
		return goerr.Wrap(ErrDimensionMismatch, "embedding has unexpected length",
			goerr.V("content_type", r.ContentType),
			goerr.V("content_id", r.ContentID),
			goerr.V("expected", dimension),
			goerr.V("actual", len(r.Embedding)))
	}
	return nil
}

// Key returns the natural key of the record
func (r *EmbeddingRecord) Key() string {
	return EmbeddingKey(r.ContentType, r.ContentID)
}

// EmbeddingKey builds the natural key used as document ID by the stores
func EmbeddingKey(contentType types.ContentType, contentID string) string {
	return string(contentType) + "_" + contentID
}

// Clone returns a deep copy of the record
func (r *EmbeddingRecord) Clone() *EmbeddingRecord {
	copied := *r

	if r.Embedding != nil {
		copied.Embedding = make([]float32, len(r.Embedding))
		copy(copied.Embedding, r.Embedding)
	}
	if r.Metadata != nil {
		copied.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			copied.Metadata[k] = v
		}
	}

	return &copied
}

// SearchHit is a record returned by a nearest-neighbour query with its cosine distance
type SearchHit struct {
	Record   *EmbeddingRecord
	Distance float64
}
