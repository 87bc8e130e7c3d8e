package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func runCatalogRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and List round-trip each content type", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		records := []model.Content{
			&model.Trial{ID: "NCT001", Title: "Trial A", Phase: "Phase 3", Conditions: []string{"Breast Cancer"}},
			&model.Company{ID: "co-1", Name: "Acme Pharma", TherapyAreas: []string{"Oncology"}},
			&model.NewsArticle{ID: "n-1", Title: "FDA approval", PublishedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
			&model.Indication{ID: "breast-cancer", Name: "Breast Cancer", TotalTrials: 12, HasMarketInsight: true},
		}
		for _, r := range records {
			gt.NoError(t, repo.Catalog().Put(ctx, r)).Required()
		}

		trials, err := repo.Catalog().List(ctx, types.ContentTypeTrial, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, trials).Length(1)
		trial, ok := trials[0].(*model.Trial)
		gt.Bool(t, ok).True()
		gt.Value(t, trial.Title).Equal("Trial A")
		gt.Value(t, trial.Conditions).Equal([]string{"Breast Cancer"})

		indications, err := repo.Catalog().List(ctx, types.ContentTypeIndication, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, indications).Length(1)
		indication, ok := indications[0].(*model.Indication)
		gt.Bool(t, ok).True()
		gt.Value(t, indication.TotalTrials).Equal(12)
		gt.Bool(t, indication.HasMarketInsight).True()
	})

	t.Run("Put replaces a record with the same ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Catalog().Put(ctx, &model.Company{ID: "co-1", Name: "Old"})).Required()
		gt.NoError(t, repo.Catalog().Put(ctx, &model.Company{ID: "co-1", Name: "New"})).Required()

		companies, err := repo.Catalog().List(ctx, types.ContentTypeCompany, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, companies).Length(1)
		gt.Value(t, companies[0].(*model.Company).Name).Equal("New")
	})

	t.Run("List orders news newest first and applies limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		for i, id := range []string{"n-old", "n-mid", "n-new"} {
			gt.NoError(t, repo.Catalog().Put(ctx, &model.NewsArticle{
				ID:          id,
				Title:       id,
				PublishedAt: base.Add(time.Duration(i) * 24 * time.Hour),
			})).Required()
		}

		news, err := repo.Catalog().List(ctx, types.ContentTypeNews, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, news).Length(2)
		gt.Value(t, news[0].ContentID()).Equal("n-new")
		gt.Value(t, news[1].ContentID()).Equal("n-mid")
	})

	t.Run("List orders other types by ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, id := range []string{"NCT003", "NCT001", "NCT002"} {
			gt.NoError(t, repo.Catalog().Put(ctx, &model.Trial{ID: id, Title: id})).Required()
		}

		trials, err := repo.Catalog().List(ctx, types.ContentTypeTrial, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, trials).Length(3)
		gt.Value(t, trials[0].ContentID()).Equal("NCT001")
		gt.Value(t, trials[2].ContentID()).Equal("NCT003")
	})

	t.Run("Put rejects empty ID", func(t *testing.T) {
		repo := newRepo(t)
		gt.Error(t, repo.Catalog().Put(context.Background(), &model.Trial{Title: "no id"}))
	})

	t.Run("Clear deletes only the given type", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Catalog().Put(ctx, &model.Trial{ID: "NCT001"})).Required()
		gt.NoError(t, repo.Catalog().Put(ctx, &model.Trial{ID: "NCT002"})).Required()
		gt.NoError(t, repo.Catalog().Put(ctx, &model.Company{ID: "co-1", Name: "Acme"})).Required()

		deleted, err := repo.Catalog().Clear(ctx, types.ContentTypeTrial)
		gt.NoError(t, err).Required()
		gt.Value(t, deleted).Equal(2)

		trials, err := repo.Catalog().List(ctx, types.ContentTypeTrial, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, trials).Length(0)

		companies, err := repo.Catalog().List(ctx, types.ContentTypeCompany, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, companies).Length(1)
	})
}

func TestMemoryCatalogRepository(t *testing.T) {
	runCatalogRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreCatalogRepository(t *testing.T) {
	runCatalogRepositoryTest(t, newFirestoreRepository)
}

func TestPostgresCatalogRepository(t *testing.T) {
	runCatalogRepositoryTest(t, newPostgresRepository)
}
