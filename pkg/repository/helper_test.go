package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/competeai/competeai/pkg/repository/firestore"
	"github.com/competeai/competeai/pkg/repository/memory"
	"github.com/competeai/competeai/pkg/repository/postgres"
	"github.com/m-mizutani/gt"
)

// vectorFor returns a unit vector of the stored dimension pointing mostly along axis,
// with weight w leaking into axis+1. Larger w means further from the pure axis.
func vectorFor(axis int, w float32) []float32 {
	v := make([]float32, model.EmbeddingDimension)
	v[axis%model.EmbeddingDimension] = 1
	v[(axis+1)%model.EmbeddingDimension] = w
	return v
}

func newRecord(ct types.ContentType, id string, vec []float32) *model.EmbeddingRecord {
	return &model.EmbeddingRecord{
		ContentType: ct,
		ContentID:   id,
		Content:     "content of " + id,
		Embedding:   vec,
		Metadata:    map[string]any{"title": "title of " + id},
		Model:       model.DefaultEmbeddingModel,
	}
}

// resetRepository empties every collection so that each test owns the store
func resetRepository(t *testing.T, repo interfaces.Repository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Embedding().ClearAll(ctx)
	gt.NoError(t, err).Required()
	for _, ct := range types.AllContentTypes() {
		_, err := repo.Catalog().Clear(ctx, ct)
		gt.NoError(t, err).Required()
	}
}

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix("test_"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})

	resetRepository(t, repo)
	return repo
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	repo, err := postgres.New(ctx, dsn)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})

	_, err = postgres.Migrate(repo.DB())
	gt.NoError(t, err).Required()

	resetRepository(t, repo)
	return repo
}
