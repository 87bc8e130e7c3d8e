package memory

import (
	"github.com/competeai/competeai/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-process repository for development and tests
type Memory struct {
	embedding *embeddingRepository
	catalog   *catalogRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		embedding: newEmbeddingRepository(),
		catalog:   newCatalogRepository(),
	}
}

func (m *Memory) Embedding() interfaces.EmbeddingRepository {
	return m.embedding
}

func (m *Memory) Catalog() interfaces.CatalogRepository {
	return m.catalog
}

func (m *Memory) Close() error {
	return nil
}
