package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/competeai/competeai/pkg/repository/memory"
	"github.com/competeai/competeai/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func newSearchFixture(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Repository, *mockEmbedder, *mockCompleter) {
	t.Helper()

	repo := memory.New()
	embedder := &mockEmbedder{}
	completer := &mockCompleter{}

	indexCfg := usecase.DefaultIndexConfig()
	indexCfg.ItemDelay = 0

	all := append([]usecase.Option{
		usecase.WithEmbedder(embedder),
		usecase.WithCompleter(completer),
		usecase.WithIndexConfig(indexCfg),
	}, opts...)

	return usecase.New(repo, all...), repo, embedder, completer
}

func seedAndIndex(t *testing.T, uc *usecase.UseCases, catalog *model.Catalog) {
	t.Helper()
	ctx := context.Background()

	_, err := uc.Seed.Seed(ctx, usecase.SeedInput{Catalog: catalog})
	gt.NoError(t, err).Required()

	_, err = uc.Index.Run(ctx, usecase.IndexInput{ContentType: "all", SkipExisting: true})
	gt.NoError(t, err).Required()
}

func TestSearch_ValidatesBeforeProviderCalls(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		t.Run(fmt.Sprintf("query %q", q), func(t *testing.T) {
			uc, _, embedder, completer := newSearchFixture(t)

			_, err := uc.Search.Search(context.Background(), usecase.SearchInput{Query: q})
			gt.Error(t, err).Is(usecase.ErrInvalidInput)
			gt.Value(t, embedder.Calls()).Equal(0)
			gt.Value(t, completer.Calls()).Equal(0)
		})
	}

	t.Run("unknown content type", func(t *testing.T) {
		uc, _, embedder, _ := newSearchFixture(t)

		_, err := uc.Search.Search(context.Background(), usecase.SearchInput{Query: "q", ContentType: "drug"})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
		gt.Value(t, embedder.Calls()).Equal(0)
	})
}

func TestSearch_ProviderNotConfigured(t *testing.T) {
	repo := memory.New()

	t.Run("no embedder", func(t *testing.T) {
		uc := usecase.New(repo, usecase.WithCompleter(&mockCompleter{}))
		_, err := uc.Search.Search(context.Background(), usecase.SearchInput{Query: "breast cancer"})
		gt.Error(t, err).Is(usecase.ErrProviderNotConfigured)
	})

	t.Run("no completer", func(t *testing.T) {
		embedder := &mockEmbedder{}
		uc := usecase.New(repo, usecase.WithEmbedder(embedder))
		_, err := uc.Search.Search(context.Background(), usecase.SearchInput{Query: "breast cancer"})
		gt.Error(t, err).Is(usecase.ErrProviderNotConfigured)
		gt.Value(t, embedder.Calls()).Equal(0)
	})
}

func TestSearch_NoResults(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		uc, _, embedder, completer := newSearchFixture(t)

		result, err := uc.Search.Search(context.Background(), usecase.SearchInput{Query: "breast cancer"})
		gt.NoError(t, err).Required()
		gt.Value(t, result.Answer).Equal(usecase.NoResultsAnswer)
		gt.Array(t, result.Sources).Length(0)
		gt.Value(t, result.Query).Equal("breast cancer")
		gt.Value(t, result.TokensUsed).Nil()
		gt.Value(t, embedder.Calls()).Equal(1)
		gt.Value(t, completer.Calls()).Equal(0)
	})

	t.Run("filter matching nothing", func(t *testing.T) {
		uc, _, _, completer := newSearchFixture(t)
		seedAndIndex(t, uc, &model.Catalog{
			Trials: []*model.Trial{{ID: "NCT001", Title: "Breast Cancer Study"}},
		})

		result, err := uc.Search.Search(context.Background(), usecase.SearchInput{Query: "breast cancer", ContentType: "news"})
		gt.NoError(t, err).Required()
		gt.Value(t, result.Answer).Equal(usecase.NoResultsAnswer)
		gt.Array(t, result.Sources).Length(0)
		gt.Value(t, completer.Calls()).Equal(0)
	})
}

func TestSearch_EndToEnd(t *testing.T) {
	uc, _, _, completer := newSearchFixture(t)
	seedAndIndex(t, uc, &model.Catalog{
		Trials: []*model.Trial{
			{
				ID:           "NCT05000001",
				Title:        "Metastatic Breast Cancer Phase 3 Study",
				Phase:        "Phase 3",
				Status:       "Recruiting",
				Conditions:   []string{"Breast Cancer"},
				Sponsor:      "Acme Pharma",
				BriefSummary: "A randomized study of a HER2 antibody.",
			},
			{
				ID:         "NCT05000002",
				Title:      "Lung Cancer Study",
				Phase:      "Phase 2",
				Conditions: []string{"Non-small cell lung cancer"},
			},
		},
	})

	result, err := uc.Search.Search(context.Background(), usecase.SearchInput{
		Query: "What Phase 3 trials exist for breast cancer?",
	})
	gt.NoError(t, err).Required()

	gt.Array(t, result.Sources).Length(2)
	top := result.Sources[0]
	gt.Value(t, top.Type).Equal(types.ContentTypeTrial)
	gt.Value(t, top.ID).Equal("NCT05000001")
	gt.Value(t, top.Title).Equal("Clinical Trial: Metastatic Breast Cancer Phase 3 Study")
	gt.Value(t, top.URL).Equal("https://clinicaltrials.gov/study/NCT05000001")
	gt.Value(t, top.Metadata["sponsor"]).Equal("Acme Pharma")
	gt.Bool(t, top.Relevance > result.Sources[1].Relevance).True()

	for _, s := range result.Sources {
		gt.Bool(t, s.Relevance >= 0 && s.Relevance <= 1).True()
	}

	gt.String(t, result.Answer).Contains("Document 1")
	gt.Value(t, result.Model).Equal("mock-model")
	gt.Value(t, *result.TokensUsed).Equal(model.TokenUsage{Input: 1200, Output: 40})
	gt.Value(t, *result.EstimatedCost).Equal(0.000204)

	req := completer.LastRequest()
	gt.Value(t, req.SystemPrompt).Equal(usecase.SearchSystemPrompt)
	gt.Value(t, req.Temperature).Equal(float32(0.2))
	gt.Value(t, req.MaxTokens).Equal(500)
	gt.String(t, req.UserPrompt).Contains("Question: What Phase 3 trials exist for breast cancer?")
	gt.String(t, req.UserPrompt).Contains("[Document 1 - trial]\nClinical Trial: Metastatic Breast Cancer Phase 3 Study")
	gt.String(t, req.UserPrompt).Contains("[Document 2 - trial]")
}

func TestSearch_LimitIsClamped(t *testing.T) {
	uc, _, _, _ := newSearchFixture(t)

	catalog := &model.Catalog{}
	for i := range 25 {
		catalog.Trials = append(catalog.Trials, &model.Trial{ID: fmt.Sprintf("NCT%03d", i), Title: "Breast cancer study"})
	}
	seedAndIndex(t, uc, catalog)

	result, err := uc.Search.Search(context.Background(), usecase.SearchInput{Query: "breast", Limit: 100})
	gt.NoError(t, err).Required()
	gt.Array(t, result.Sources).Length(20)

	result, err = uc.Search.Search(context.Background(), usecase.SearchInput{Query: "breast"})
	gt.NoError(t, err).Required()
	gt.Array(t, result.Sources).Length(5)

	result, err = uc.Search.Search(context.Background(), usecase.SearchInput{Query: "breast", Limit: 2})
	gt.NoError(t, err).Required()
	gt.Array(t, result.Sources).Length(2)
}

func TestSearch_ProviderFailures(t *testing.T) {
	t.Run("embedding failure keeps provider message", func(t *testing.T) {
		uc, _, embedder, completer := newSearchFixture(t)
		embedder.embedFn = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("401 invalid api key")
		}

		_, err := uc.Search.Search(context.Background(), usecase.SearchInput{Query: "breast cancer"})
		gt.Error(t, err).Is(usecase.ErrProviderCallFailed)
		gt.String(t, err.Error()).Contains("401 invalid api key")
		gt.Value(t, completer.Calls()).Equal(0)
	})

	t.Run("completion failure", func(t *testing.T) {
		uc, _, _, completer := newSearchFixture(t)
		seedAndIndex(t, uc, &model.Catalog{
			Trials: []*model.Trial{{ID: "NCT001", Title: "Breast Cancer Study"}},
		})
		completer.completeFn = func(ctx context.Context, req model.CompletionRequest) (*model.Completion, error) {
			return nil, errors.New("503 overloaded")
		}

		_, err := uc.Search.Search(context.Background(), usecase.SearchInput{Query: "breast cancer"})
		gt.Error(t, err).Is(usecase.ErrProviderCallFailed)
	})

	t.Run("completion timeout", func(t *testing.T) {
		cfg := usecase.DefaultSearchConfig()
		cfg.CompletionTimeout = 10 * time.Millisecond

		uc, _, _, completer := newSearchFixture(t, usecase.WithSearchConfig(cfg))
		seedAndIndex(t, uc, &model.Catalog{
			Trials: []*model.Trial{{ID: "NCT001", Title: "Breast Cancer Study"}},
		})
		completer.completeFn = func(ctx context.Context, req model.CompletionRequest) (*model.Completion, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}

		_, err := uc.Search.Search(context.Background(), usecase.SearchInput{Query: "breast cancer"})
		gt.Error(t, err).Is(usecase.ErrUpstreamTimeout)
	})
}

func TestBuildContext(t *testing.T) {
	hits := []*model.SearchHit{
		{
			Record: &model.EmbeddingRecord{
				ContentType: types.ContentTypeCompany,
				ContentID:   "co-1",
				Content:     "Pharmaceutical Company: Acme",
				Metadata: map[string]any{
					"name":         "Acme",
					"therapyAreas": []string{"Oncology", "Immunology"},
				},
			},
			Distance: 0.1,
		},
		{
			Record: &model.EmbeddingRecord{
				ContentType: types.ContentTypeNews,
				ContentID:   "n-1",
				Content:     "News Article: Approval",
			},
			Distance: 0.2,
		},
	}

	gt.Value(t, usecase.BuildContext(hits)).Equal(
		"[Document 1 - company]\nPharmaceutical Company: Acme\nMetadata: name: Acme; therapyAreas: Oncology, Immunology\n---" +
			"\n\n" +
			"[Document 2 - news]\nNews Article: Approval\n---")
}

func TestFlattenMetadata(t *testing.T) {
	gt.Value(t, usecase.FlattenMetadata(map[string]any{
		"phase":      "Phase 3",
		"conditions": []any{"Breast Cancer", "HER2+"},
		"skip":       nil,
		"active":     true,
	})).Equal("active: true; conditions: Breast Cancer, HER2+; phase: Phase 3")
}

func TestRelevance(t *testing.T) {
	testCases := []struct {
		distance float64
		expected float64
	}{
		{0, 1},
		{0.12345, 0.877},
		{1, 0},
		{1.7, 0},
		{-0.05, 1},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("distance %v", tc.distance), func(t *testing.T) {
			gt.Value(t, usecase.Relevance(tc.distance)).Equal(tc.expected)
		})
	}
}

func TestSourceTitleAndURL(t *testing.T) {
	gt.Value(t, usecase.SourceTitle("Indication: Breast Cancer\nTherapeutic Area: Oncology")).Equal("Indication: Breast Cancer")

	long := "\n"
	for range 30 {
		long += "abcde"
	}
	gt.Value(t, len([]rune(usecase.SourceTitle(long)))).Equal(100)

	testCases := []struct {
		name     string
		record   *model.EmbeddingRecord
		expected string
	}{
		{"trial", &model.EmbeddingRecord{ContentType: types.ContentTypeTrial, ContentID: "NCT1"}, "https://clinicaltrials.gov/study/NCT1"},
		{"company", &model.EmbeddingRecord{ContentType: types.ContentTypeCompany, ContentID: "acme"}, "/companies/acme"},
		{"indication", &model.EmbeddingRecord{ContentType: types.ContentTypeIndication, ContentID: "breast-cancer"}, "/indications/breast-cancer"},
		{"news with url", &model.EmbeddingRecord{ContentType: types.ContentTypeNews, ContentID: "n", Metadata: map[string]any{"sourceUrl": "https://example.com/a"}}, "https://example.com/a"},
		{"news without url", &model.EmbeddingRecord{ContentType: types.ContentTypeNews, ContentID: "n"}, "/news"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, usecase.SourceURL(tc.record)).Equal(tc.expected)
		})
	}
}
