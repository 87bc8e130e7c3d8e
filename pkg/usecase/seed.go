package usecase

import (
	"context"

	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type SeedInput struct {
	Catalog *model.Catalog

	// Reseed clears the catalog and the embeddings of every content type present in Catalog first
	Reseed bool
}

// SeedResult counts what a seed run wrote and deleted, per content type
type SeedResult struct {
	Written           map[types.ContentType]int
	ClearedRecords    map[types.ContentType]int
	ClearedEmbeddings map[types.ContentType]int
}

type SeedUseCase struct {
	repo interfaces.Repository
}

func NewSeedUseCase(repo interfaces.Repository) *SeedUseCase {
	return &SeedUseCase{
		repo: repo,
	}
}

// Seed writes the catalog records. Existing records with the same ID are replaced.
func (uc *SeedUseCase) Seed(ctx context.Context, input SeedInput) (*SeedResult, error) {
	if input.Catalog == nil {
		return nil, goerr.Wrap(ErrInvalidInput, "catalog is required")
	}

	result := &SeedResult{
		Written:           make(map[types.ContentType]int),
		ClearedRecords:    make(map[types.ContentType]int),
		ClearedEmbeddings: make(map[types.ContentType]int),
	}
	logger := logging.From(ctx)

	for _, ct := range input.Catalog.Types() {
		if input.Reseed {
			deleted, err := uc.repo.Catalog().Clear(ctx, ct)
			if err != nil {
				return result, goerr.Wrap(classify(err, ErrStoreUnavailable), "failed to clear catalog",
					goerr.V(ContentTypeKey, ct))
			}
			result.ClearedRecords[ct] = deleted

			deleted, err = uc.repo.Embedding().ClearByType(ctx, ct)
			if err != nil {
				return result, goerr.Wrap(classify(err, ErrStoreUnavailable), "failed to clear embeddings",
					goerr.V(ContentTypeKey, ct))
			}
			result.ClearedEmbeddings[ct] = deleted

			logger.Info("Content type cleared",
				ContentTypeKey, ct,
				"records", result.ClearedRecords[ct],
				"embeddings", result.ClearedEmbeddings[ct],
			)
		}

		for _, c := range input.Catalog.Contents(ct) {
			if c.ContentID() == "" {
				return result, goerr.Wrap(ErrInvalidInput, "catalog record has no ID", goerr.V(ContentTypeKey, ct))
			}
			if err := uc.repo.Catalog().Put(ctx, c); err != nil {
				return result, goerr.Wrap(classify(err, ErrStoreUnavailable), "failed to write catalog record",
					goerr.V(ContentTypeKey, ct),
					goerr.V(ContentIDKey, c.ContentID()))
			}
			result.Written[ct]++
		}

		logger.Info("Content type seeded", ContentTypeKey, ct, "records", result.Written[ct])
	}

	return result, nil
}
