package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type embeddingEntry struct {
	record *model.EmbeddingRecord
	seq    uint64 // insertion order, used to break distance ties
}

type embeddingRepository struct {
	mu      sync.RWMutex
	entries map[string]*embeddingEntry
	nextSeq uint64
}

func newEmbeddingRepository() *embeddingRepository {
	return &embeddingRepository{
		entries: make(map[string]*embeddingEntry),
	}
}

func (r *embeddingRepository) Upsert(ctx context.Context, record *model.EmbeddingRecord) (*model.EmbeddingRecord, error) {
	if err := record.Validate(0); err != nil {
		return nil, goerr.Wrap(err, "invalid embedding record")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := record.Clone()
	key := stored.Key()

	if existing, ok := r.entries[key]; ok {
		stored.ID = existing.record.ID
		stored.CreatedAt = existing.record.CreatedAt
		if !now.After(existing.record.UpdatedAt) {
			now = existing.record.UpdatedAt.Add(time.Microsecond)
		}
		stored.UpdatedAt = now
		existing.record = stored
		return stored.Clone(), nil
	}

	if stored.ID == "" {
		stored.ID = model.NewEmbeddingRecordID()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.nextSeq++
	r.entries[key] = &embeddingEntry{record: stored, seq: r.nextSeq}

	return stored.Clone(), nil
}

func (r *embeddingRepository) Get(ctx context.Context, contentType types.ContentType, contentID string) (*model.EmbeddingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[model.EmbeddingKey(contentType, contentID)]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "embedding not found",
			goerr.V("content_type", contentType),
			goerr.V("content_id", contentID))
	}

	return entry.record.Clone(), nil
}

func (r *embeddingRepository) Exists(ctx context.Context, contentType types.ContentType, contentID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[model.EmbeddingKey(contentType, contentID)]
	return ok, nil
}

func (r *embeddingRepository) Query(ctx context.Context, vector []float32, k int, filter types.ContentType) ([]*model.SearchHit, error) {
	if k <= 0 || len(vector) == 0 {
		return []*model.SearchHit{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		entry    *embeddingEntry
		distance float64
	}

	candidates := make([]scored, 0, len(r.entries))
	for _, e := range r.entries {
		if !filter.Matches(e.record.ContentType) {
			continue
		}
		// records produced by a model of another dimension cannot be compared
		if len(e.record.Embedding) != len(vector) {
			continue
		}
		candidates = append(candidates, scored{entry: e, distance: cosineDistance(vector, e.record.Embedding)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].entry.seq < candidates[j].entry.seq
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	hits := make([]*model.SearchHit, k)
	for i := 0; i < k; i++ {
		hits[i] = &model.SearchHit{
			Record:   candidates[i].entry.record.Clone(),
			Distance: candidates[i].distance,
		}
	}

	return hits, nil
}

func (r *embeddingRepository) Count(ctx context.Context, filter types.ContentType) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, e := range r.entries {
		if filter.Matches(e.record.ContentType) {
			count++
		}
	}
	return count, nil
}

func (r *embeddingRepository) ClearAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := len(r.entries)
	r.entries = make(map[string]*embeddingEntry)
	return deleted, nil
}

func (r *embeddingRepository) ClearByType(ctx context.Context, contentType types.ContentType) (int, error) {
	if !contentType.IsValid() {
		return 0, goerr.New("invalid content type", goerr.V("content_type", contentType))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for key, e := range r.entries {
		if e.record.ContentType == contentType {
			delete(r.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// cosineDistance returns 1 - cosine similarity, in [0, 2]. A zero vector is at distance 1.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 1
	}

	return 1 - dot/denom
}
