package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/competeai/competeai/pkg/service/formatter"
	"github.com/competeai/competeai/pkg/utils/errutil"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/competeai/competeai/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/time/rate"
)

// IndexConfig holds the tunables of the batch indexer
type IndexConfig struct {
	// ItemDelay is the minimum interval between two embedding calls
	ItemDelay time.Duration

	// NewsLimit caps the news candidates when no limit is requested
	NewsLimit int

	// ProgressInterval is the number of processed items between progress logs
	ProgressInterval int
}

func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		ItemDelay:        600 * time.Millisecond,
		NewsLimit:        100,
		ProgressInterval: 10,
	}
}

// IndexInput selects what the indexer visits. ContentType is a type name, "all" or empty.
type IndexInput struct {
	ContentType  string
	Limit        int
	SkipExisting bool

	// Force re-embeds records that already have an embedding
	Force bool
}

// IndexResult holds one summary per visited content type, in visiting order
type IndexResult struct {
	Summaries []model.IndexSummary
}

// Total sums the summaries of every content type
func (r *IndexResult) Total() model.IndexSummary {
	var total model.IndexSummary
	for _, s := range r.Summaries {
		total.Candidates += s.Candidates
		total.Processed += s.Processed
		total.Skipped += s.Skipped
		total.Errored += s.Errored
	}
	return total
}

type IndexUseCase struct {
	repo     interfaces.Repository
	embedder interfaces.Embedder
	config   IndexConfig
	metrics  *metrics.Metrics
}

func NewIndexUseCase(repo interfaces.Repository, embedder interfaces.Embedder, cfg IndexConfig, m *metrics.Metrics) *IndexUseCase {
	return &IndexUseCase{
		repo:     repo,
		embedder: embedder,
		config:   cfg,
		metrics:  m,
	}
}

type itemOutcome int

const (
	itemProcessed itemOutcome = iota
	itemSkipped
)

// Run brings the embedding store up to date with the catalog. Records are visited one at
// a time in catalog order; a failing record is logged and counted without stopping the run.
func (uc *IndexUseCase) Run(ctx context.Context, input IndexInput) (*IndexResult, error) {
	filter, err := types.ParseContentTypeFilter(input.ContentType)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid content type",
			goerr.V(ContentTypeKey, input.ContentType))
	}
	if uc.embedder == nil {
		return nil, goerr.Wrap(ErrProviderNotConfigured, "embedding provider is not configured")
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if uc.config.ItemDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(uc.config.ItemDelay), 1)
	}

	result := &IndexResult{}
	for _, ct := range types.AllContentTypes() {
		if !filter.Matches(ct) {
			continue
		}

		summary, err := uc.indexType(ctx, limiter, ct, input)
		if summary != nil {
			result.Summaries = append(result.Summaries, *summary)
		}
		if err != nil {
			return result, err
		}
	}

	total := result.Total()
	logging.From(ctx).Info("Indexing completed",
		"candidates", total.Candidates,
		"processed", total.Processed,
		"skipped", total.Skipped,
		"errored", total.Errored,
	)

	return result, nil
}

func (uc *IndexUseCase) indexType(ctx context.Context, limiter *rate.Limiter, ct types.ContentType, input IndexInput) (*model.IndexSummary, error) {
	logger := logging.From(ctx).With(ContentTypeKey, ct.String())

	limit := input.Limit
	if limit <= 0 && ct == types.ContentTypeNews {
		limit = uc.config.NewsLimit
	}

	candidates, err := uc.repo.Catalog().List(ctx, ct, limit)
	if err != nil {
		return nil, goerr.Wrap(classify(err, ErrStoreUnavailable), "failed to list candidates",
			goerr.V(ContentTypeKey, ct))
	}
	logger.Info("Indexing content type", "candidates", len(candidates))

	summary := &model.IndexSummary{
		ContentType: ct,
		Candidates:  len(candidates),
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, goerr.Wrap(err, "indexing canceled", goerr.V(ContentTypeKey, ct))
		}

		outcome, err := uc.indexItem(ctx, limiter, c, input)
		if err != nil {
			if ctx.Err() != nil {
				return summary, goerr.Wrap(err, "indexing canceled", goerr.V(ContentTypeKey, ct))
			}
			errutil.Handle(ctx, goerr.Wrap(fmt.Errorf("%w: %w", ErrItemProcessingFailed, err), "failed to index item",
				goerr.V(ContentTypeKey, ct),
				goerr.V(ContentIDKey, c.ContentID())), "failed to index item")
			summary.Errored++
			uc.metrics.RecordIndexed(ct.String(), metrics.OutcomeErrored)
			continue
		}

		switch outcome {
		case itemSkipped:
			summary.Skipped++
			uc.metrics.RecordIndexed(ct.String(), metrics.OutcomeSkipped)
		case itemProcessed:
			summary.Processed++
			uc.metrics.RecordIndexed(ct.String(), metrics.OutcomeProcessed)
			if uc.config.ProgressInterval > 0 && summary.Processed%uc.config.ProgressInterval == 0 {
				logger.Info("Indexing progress", "processed", summary.Processed, "candidates", summary.Candidates)
			}
		}
	}

	logger.Info("Content type indexed",
		"candidates", summary.Candidates,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"errored", summary.Errored,
	)

	return summary, nil
}

func (uc *IndexUseCase) indexItem(ctx context.Context, limiter *rate.Limiter, c model.Content, input IndexInput) (itemOutcome, error) {
	ct := c.ContentType()

	if input.SkipExisting && !input.Force {
		exists, err := uc.repo.Embedding().Exists(ctx, ct, c.ContentID())
		if err != nil {
			return 0, classify(err, ErrStoreUnavailable)
		}
		if exists {
			return itemSkipped, nil
		}
	}

	text, err := formatter.Format(c)
	if err != nil {
		return 0, err
	}

	if err := limiter.Wait(ctx); err != nil {
		return 0, goerr.Wrap(err, "rate limiter wait interrupted")
	}

	// a one-element batch gets the generator's retry on rate limiting
	vectors, err := uc.embedder.EmbedBatch(ctx, []string{text}, 1)
	if err != nil {
		uc.metrics.RecordProviderCall(metrics.KindEmbedding, metrics.OutcomeError)
		return 0, classify(err, ErrProviderCallFailed)
	}
	uc.metrics.RecordProviderCall(metrics.KindEmbedding, metrics.OutcomeSuccess)
	if len(vectors) != 1 {
		return 0, goerr.New("unexpected number of vectors", goerr.V("count", len(vectors)))
	}

	record := &model.EmbeddingRecord{
		ContentType: ct,
		ContentID:   c.ContentID(),
		Content:     text,
		Embedding:   vectors[0],
		Metadata:    formatter.Metadata(c),
		Model:       uc.embedder.Model(),
	}
	if err := record.Validate(uc.embedder.Dimension()); err != nil {
		return 0, err
	}

	if _, err := uc.repo.Embedding().Upsert(ctx, record); err != nil {
		return 0, classify(err, ErrStoreUnavailable)
	}

	return itemProcessed, nil
}
