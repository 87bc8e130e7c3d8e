package interfaces

import (
	"context"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
)

// CatalogRepository stores the domain records the indexer embeds
type CatalogRepository interface {
	// Put creates or replaces a record
	Put(ctx context.Context, content model.Content) error

	// List returns records of contentType. News is ordered newest first, everything else by ID.
	// limit <= 0 means no limit.
	List(ctx context.Context, contentType types.ContentType, limit int) ([]model.Content, error)

	// Clear deletes every record of contentType and returns the number deleted
	Clear(ctx context.Context, contentType types.ContentType) (int, error)
}
