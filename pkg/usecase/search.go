package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/competeai/competeai/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
)

const searchSystemPrompt = `You are CompeteAI, an expert pharmaceutical competitive intelligence assistant. 
Your role is to answer questions about clinical trials, pharmaceutical companies, news, and therapeutic indications.

IMPORTANT RULES:
1. Answer questions using ONLY the context provided below
2. If the answer isn't in the context, say "I don't have enough information in the database to answer this question accurately."
3. Be specific and cite which documents you're using (e.g., "According to Document 1...")
4. For comparisons, use data from multiple documents
5. Focus on actionable insights for pharmaceutical industry professionals
6. Keep answers concise but informative (2-4 sentences for simple questions, up to 2 paragraphs for complex ones)`

const searchUserPromptTemplate = `Question: %s

Context from database:
%s

Please provide a clear, accurate answer based on the context above. If you need to compare multiple items, reference the specific documents.`

// NoResultsAnswer is returned without calling the completion model when retrieval finds nothing
const NoResultsAnswer = "I couldn't find any relevant information in the database. Try rephrasing your question or check if embeddings have been generated for the data."

const (
	trialRegistryURL = "https://clinicaltrials.gov/study/"
	newsFallbackPath = "/news"
	maxTitleLength   = 100
)

// SearchConfig holds the tunables of the search pipeline
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
	Temperature  float32
	MaxTokens    int

	EmbedTimeout      time.Duration
	StoreTimeout      time.Duration
	CompletionTimeout time.Duration
}

// DefaultSearchConfig returns the defaults: 5 documents, temperature 0.2, 500 output tokens
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		DefaultLimit:      5,
		MaxLimit:          20,
		Temperature:       0.2,
		MaxTokens:         500,
		EmbedTimeout:      15 * time.Second,
		StoreTimeout:      10 * time.Second,
		CompletionTimeout: 60 * time.Second,
	}
}

// SearchInput is a natural-language question. ContentType is a type name, "all" or empty.
type SearchInput struct {
	Query       string
	ContentType string
	Limit       int
}

type SearchUseCase struct {
	repo      interfaces.Repository
	embedder  interfaces.Embedder
	completer interfaces.Completer
	config    SearchConfig
	metrics   *metrics.Metrics
}

func NewSearchUseCase(repo interfaces.Repository, embedder interfaces.Embedder, completer interfaces.Completer, cfg SearchConfig, m *metrics.Metrics) *SearchUseCase {
	return &SearchUseCase{
		repo:      repo,
		embedder:  embedder,
		completer: completer,
		config:    cfg,
		metrics:   m,
	}
}

// Search answers input.Query from the records nearest to it. The completion model only
// sees retrieved context; when nothing is retrieved it is not called at all.
func (uc *SearchUseCase) Search(ctx context.Context, input SearchInput) (*model.QueryResult, error) {
	started := time.Now()

	result, err := uc.search(ctx, input)

	outcome := metrics.OutcomeAnswered
	resultCount := 0
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case len(result.Sources) == 0:
		outcome = metrics.OutcomeNoResults
	default:
		resultCount = len(result.Sources)
	}
	uc.metrics.RecordSearch(outcome, time.Since(started), resultCount)

	return result, err
}

func (uc *SearchUseCase) search(ctx context.Context, input SearchInput) (*model.QueryResult, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "query is required")
	}

	filter, err := types.ParseContentTypeFilter(input.ContentType)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid content type",
			goerr.V(ContentTypeKey, input.ContentType))
	}

	if uc.embedder == nil {
		return nil, goerr.Wrap(ErrProviderNotConfigured, "embedding provider is not configured")
	}
	if uc.completer == nil {
		return nil, goerr.Wrap(ErrProviderNotConfigured, "completion provider is not configured")
	}

	limit := uc.limit(input.Limit)
	logger := logging.From(ctx).With(QueryKey, query, ContentTypeKey, filter.String(), "limit", limit)
	logger.Info("search started")

	vector, err := callWithTimeout(ctx, uc.config.EmbedTimeout, func(ctx context.Context) ([]float32, error) {
		return uc.embedder.Embed(ctx, query)
	})
	if err != nil {
		uc.metrics.RecordProviderCall(metrics.KindEmbedding, metrics.OutcomeError)
		return nil, goerr.Wrap(classify(err, ErrProviderCallFailed), "failed to embed query",
			goerr.V(QueryKey, query))
	}
	uc.metrics.RecordProviderCall(metrics.KindEmbedding, metrics.OutcomeSuccess)

	hits, err := callWithTimeout(ctx, uc.config.StoreTimeout, func(ctx context.Context) ([]*model.SearchHit, error) {
		return uc.repo.Embedding().Query(ctx, vector, limit, filter)
	})
	if err != nil {
		return nil, goerr.Wrap(classify(err, ErrStoreUnavailable), "failed to query embedding store",
			goerr.V(ContentTypeKey, filter),
			goerr.V("limit", limit))
	}
	logger.Debug("documents retrieved", "count", len(hits))

	if len(hits) == 0 {
		logger.Info("search found no documents")
		return &model.QueryResult{
			Answer:  NoResultsAnswer,
			Sources: []model.Source{},
			Query:   input.Query,
		}, nil
	}

	completionStarted := time.Now()
	completion, err := callWithTimeout(ctx, uc.config.CompletionTimeout, func(ctx context.Context) (*model.Completion, error) {
		return uc.completer.Complete(ctx, model.CompletionRequest{
			SystemPrompt: searchSystemPrompt,
			UserPrompt:   fmt.Sprintf(searchUserPromptTemplate, query, BuildContext(hits)),
			Temperature:  uc.config.Temperature,
			MaxTokens:    uc.config.MaxTokens,
		})
	})
	if err != nil {
		uc.metrics.RecordProviderCall(metrics.KindCompletion, metrics.OutcomeError)
		return nil, goerr.Wrap(classify(err, ErrProviderCallFailed), "failed to generate answer",
			goerr.V(QueryKey, query))
	}
	uc.metrics.RecordProviderCall(metrics.KindCompletion, metrics.OutcomeSuccess)
	uc.metrics.RecordCompletionUsage(completion.Usage.Input, completion.Usage.Output, completion.EstimatedCost)

	logger.Info("search answered",
		"documents", len(hits),
		"model", completion.Model,
		"input_tokens", completion.Usage.Input,
		"output_tokens", completion.Usage.Output,
		"completion_latency", time.Since(completionStarted),
	)

	sources := make([]model.Source, 0, len(hits))
	for _, hit := range hits {
		sources = append(sources, toSource(hit))
	}

	usage := completion.Usage
	cost := completion.EstimatedCost
	return &model.QueryResult{
		Answer:        completion.Text,
		Sources:       sources,
		Query:         input.Query,
		Model:         completion.Model,
		TokensUsed:    &usage,
		EstimatedCost: &cost,
	}, nil
}

func (uc *SearchUseCase) limit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = uc.config.DefaultLimit
	}
	if limit <= 0 {
		limit = 5
	}
	if uc.config.MaxLimit > 0 && limit > uc.config.MaxLimit {
		limit = uc.config.MaxLimit
	}
	return limit
}

// BuildContext renders retrieved records as numbered documents in rank order
func BuildContext(hits []*model.SearchHit) string {
	docs := make([]string, 0, len(hits))
	for i, hit := range hits {
		var b strings.Builder
		fmt.Fprintf(&b, "[Document %d - %s]\n%s", i+1, hit.Record.ContentType, hit.Record.Content)
		if md := flattenMetadata(hit.Record.Metadata); md != "" {
			b.WriteString("\nMetadata: ")
			b.WriteString(md)
		}
		b.WriteString("\n---")
		docs = append(docs, b.String())
	}
	return strings.Join(docs, "\n\n")
}

func flattenMetadata(metadata map[string]any) string {
	keys := make([]string, 0, len(metadata))
	for k, v := range metadata {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+": "+metadataValue(metadata[k]))
	}
	return strings.Join(pairs, "; ")
}

func metadataValue(v any) string {
	switch vv := v.(type) {
	case []string:
		return strings.Join(vv, ", ")
	case []any:
		parts := make([]string, 0, len(vv))
		for _, item := range vv {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(vv)
	}
}

func toSource(hit *model.SearchHit) model.Source {
	rec := hit.Record
	metadata := rec.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return model.Source{
		Type:      rec.ContentType,
		ID:        rec.ContentID,
		Title:     sourceTitle(rec.Content),
		URL:       sourceURL(rec),
		Metadata:  metadata,
		Relevance: Relevance(hit.Distance),
	}
}

// sourceTitle is the first line of content, or its first 100 characters when that line is empty
func sourceTitle(content string) string {
	first, _, _ := strings.Cut(content, "\n")
	if first != "" {
		return first
	}

	runes := []rune(content)
	if len(runes) > maxTitleLength {
		runes = runes[:maxTitleLength]
	}
	return string(runes)
}

func sourceURL(rec *model.EmbeddingRecord) string {
	switch rec.ContentType {
	case types.ContentTypeTrial:
		return trialRegistryURL + rec.ContentID
	case types.ContentTypeCompany:
		return "/companies/" + rec.ContentID
	case types.ContentTypeIndication:
		return "/indications/" + rec.ContentID
	case types.ContentTypeNews:
		if u, ok := rec.Metadata["sourceUrl"].(string); ok && u != "" {
			return u
		}
		return newsFallbackPath
	default:
		return ""
	}
}

// Relevance converts a cosine distance into a score in [0, 1] rounded to three decimals
func Relevance(distance float64) float64 {
	r := math.Round((1-distance)*1000) / 1000
	return math.Max(0, math.Min(1, r))
}
