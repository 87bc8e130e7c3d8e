package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// embeddingDoc is the Firestore document representation of model.EmbeddingRecord.
// Embedding is stored as firestore.Vector32 so that FindNearest vector search works.
type embeddingDoc struct {
	ID          string             `firestore:"ID"`
	ContentType string             `firestore:"ContentType"`
	ContentID   string             `firestore:"ContentID"`
	Content     string             `firestore:"Content"`
	Embedding   firestore.Vector32 `firestore:"Embedding"`
	Metadata    map[string]any     `firestore:"Metadata"`
	Model       string             `firestore:"Model"`
	CreatedAt   time.Time          `firestore:"CreatedAt"`
	UpdatedAt   time.Time          `firestore:"UpdatedAt"`
}

func toEmbeddingDoc(r *model.EmbeddingRecord) *embeddingDoc {
	return &embeddingDoc{
		ID:          string(r.ID),
		ContentType: string(r.ContentType),
		ContentID:   r.ContentID,
		Content:     r.Content,
		Embedding:   firestore.Vector32(r.Embedding),
		Metadata:    r.Metadata,
		Model:       r.Model,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func fromEmbeddingDoc(d *embeddingDoc) *model.EmbeddingRecord {
	r := &model.EmbeddingRecord{
		ID:          model.EmbeddingRecordID(d.ID),
		ContentType: types.ContentType(d.ContentType),
		ContentID:   d.ContentID,
		Content:     d.Content,
		Metadata:    d.Metadata,
		Model:       d.Model,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if len(d.Embedding) > 0 {
		r.Embedding = []float32(d.Embedding)
	}
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	return r
}

func docToEmbedding(doc *firestore.DocumentSnapshot) (*model.EmbeddingRecord, error) {
	var d embeddingDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromEmbeddingDoc(&d), nil
}

type embeddingRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newEmbeddingRepository(client *firestore.Client) *embeddingRepository {
	return &embeddingRepository{
		client: client,
	}
}

func (r *embeddingRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + EmbeddingsCollection)
}

func (r *embeddingRepository) Upsert(ctx context.Context, record *model.EmbeddingRecord) (*model.EmbeddingRecord, error) {
	if err := record.Validate(0); err != nil {
		return nil, goerr.Wrap(err, "invalid embedding record")
	}

	docRef := r.collection().Doc(record.Key())

	var stored *model.EmbeddingRecord
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		now := time.Now().UTC()
		stored = record.Clone()

		doc, err := tx.Get(docRef)
		switch {
		case err == nil:
			existing, err := docToEmbedding(doc)
			if err != nil {
				return goerr.Wrap(err, "failed to unmarshal existing embedding")
			}
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt
			if !now.After(existing.UpdatedAt) {
				now = existing.UpdatedAt.Add(time.Microsecond)
			}
		case status.Code(err) == codes.NotFound:
			if stored.ID == "" {
				stored.ID = model.NewEmbeddingRecordID()
			}
			stored.CreatedAt = now
		default:
			return goerr.Wrap(err, "failed to get embedding")
		}

		stored.UpdatedAt = now
		return tx.Set(docRef, toEmbeddingDoc(stored))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upsert embedding",
			goerr.V("content_type", record.ContentType),
			goerr.V("content_id", record.ContentID))
	}

	return stored.Clone(), nil
}

func (r *embeddingRepository) Get(ctx context.Context, contentType types.ContentType, contentID string) (*model.EmbeddingRecord, error) {
	doc, err := r.collection().Doc(model.EmbeddingKey(contentType, contentID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "embedding not found",
				goerr.V("content_type", contentType),
				goerr.V("content_id", contentID))
		}
		return nil, goerr.Wrap(err, "failed to get embedding",
			goerr.V("content_type", contentType),
			goerr.V("content_id", contentID))
	}

	rec, err := docToEmbedding(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal embedding")
	}
	return rec, nil
}

func (r *embeddingRepository) Exists(ctx context.Context, contentType types.ContentType, contentID string) (bool, error) {
	_, err := r.collection().Doc(model.EmbeddingKey(contentType, contentID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to check embedding",
			goerr.V("content_type", contentType),
			goerr.V("content_id", contentID))
	}
	return true, nil
}

func (r *embeddingRepository) filtered(filter types.ContentType) firestore.Query {
	q := r.collection().Query
	if filter != "" {
		q = q.Where(ContentTypeField, "==", string(filter))
	}
	return q
}

func (r *embeddingRepository) Query(ctx context.Context, vector []float32, k int, filter types.ContentType) ([]*model.SearchHit, error) {
	if k <= 0 || len(vector) == 0 {
		return []*model.SearchHit{}, nil
	}

	vq := r.filtered(filter).FindNearest(EmbeddingField, firestore.Vector32(vector), k,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{DistanceResultField: distanceField},
	)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	hits := make([]*model.SearchHit, 0, k)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results",
				goerr.V("filter", filter),
				goerr.V("k", k))
		}

		rec, err := docToEmbedding(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal embedding from vector search")
		}

		distance, err := doc.DataAt(distanceField)
		if err != nil {
			return nil, goerr.Wrap(err, "vector search result has no distance", goerr.V("id", doc.Ref.ID))
		}
		d, ok := distance.(float64)
		if !ok {
			return nil, goerr.New("unexpected distance type", goerr.V("id", doc.Ref.ID), goerr.V("distance", distance))
		}

		hits = append(hits, &model.SearchHit{Record: rec, Distance: d})
	}

	return hits, nil
}

func (r *embeddingRepository) Count(ctx context.Context, filter types.ContentType) (int, error) {
	docs, err := r.filtered(filter).Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count embeddings", goerr.V("filter", filter))
	}
	return len(docs), nil
}

func (r *embeddingRepository) ClearAll(ctx context.Context) (int, error) {
	return deleteAll(ctx, r.client, r.collection().Query)
}

func (r *embeddingRepository) ClearByType(ctx context.Context, contentType types.ContentType) (int, error) {
	if !contentType.IsValid() {
		return 0, goerr.New("invalid content type", goerr.V("content_type", contentType))
	}
	return deleteAll(ctx, r.client, r.filtered(contentType))
}

// deleteAll removes every document matched by q in batches and returns the number deleted
func deleteAll(ctx context.Context, client *firestore.Client, q firestore.Query) (int, error) {
	totalDeleted := 0

	for {
		iter := q.Limit(deleteBatchSize).Documents(ctx)
		bulkWriter := client.BulkWriter(ctx)
		count := 0

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				bulkWriter.End()
				return totalDeleted, goerr.Wrap(err, "failed to iterate documents for deletion")
			}

			if _, err := bulkWriter.Delete(doc.Ref); err != nil {
				iter.Stop()
				bulkWriter.End()
				return totalDeleted, goerr.Wrap(err, "failed to delete document", goerr.V("id", doc.Ref.ID))
			}
			count++
		}
		iter.Stop()
		bulkWriter.End()

		if count == 0 {
			break
		}
		totalDeleted += count

		if count < deleteBatchSize {
			break
		}
	}

	return totalDeleted, nil
}
