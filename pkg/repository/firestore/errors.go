package firestore

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned when a document does not exist
var ErrNotFound = goerr.New("not found")

const (
	// EmbeddingsCollection holds one document per embedding record
	EmbeddingsCollection = "embeddings"

	// EmbeddingField is the vector field searched with FindNearest
	EmbeddingField = "Embedding"

	// ContentTypeField is the field used to pre-filter vector queries
	ContentTypeField = "ContentType"

	distanceField   = "Distance"
	deleteBatchSize = 500
)
