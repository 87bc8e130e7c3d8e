package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type catalogRepository struct {
	mu    sync.RWMutex
	items map[types.ContentType]map[string]model.Content
}

func newCatalogRepository() *catalogRepository {
	return &catalogRepository{
		items: make(map[types.ContentType]map[string]model.Content),
	}
}

func (r *catalogRepository) Put(ctx context.Context, content model.Content) error {
	if content == nil || content.ContentID() == "" {
		return goerr.New("content ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ct := content.ContentType()
	if _, ok := r.items[ct]; !ok {
		r.items[ct] = make(map[string]model.Content)
	}
	r.items[ct][content.ContentID()] = model.CloneContent(content)

	return nil
}

func (r *catalogRepository) List(ctx context.Context, contentType types.ContentType, limit int) ([]model.Content, error) {
	if !contentType.IsValid() {
		return nil, goerr.New("invalid content type", goerr.V("content_type", contentType))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.items[contentType]
	result := make([]model.Content, 0, len(bucket))
	for _, c := range bucket {
		result = append(result, model.CloneContent(c))
	}

	sort.Slice(result, func(i, j int) bool {
		if contentType == types.ContentTypeNews {
			a := result[i].(*model.NewsArticle)
			b := result[j].(*model.NewsArticle)
			if !a.PublishedAt.Equal(b.PublishedAt) {
				return a.PublishedAt.After(b.PublishedAt)
			}
		}
		return result[i].ContentID() < result[j].ContentID()
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}

	return result, nil
}

func (r *catalogRepository) Clear(ctx context.Context, contentType types.ContentType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := len(r.items[contentType])
	delete(r.items, contentType)
	return deleted, nil
}
