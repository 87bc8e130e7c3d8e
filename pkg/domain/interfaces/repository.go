package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Embedding() EmbeddingRepository
	Catalog() CatalogRepository

	// Close releases the underlying connection
	Close() error
}
