package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// catalogCollections maps each content type to the collection holding its records
var catalogCollections = map[types.ContentType]string{
	types.ContentTypeTrial:      "trials",
	types.ContentTypeCompany:    "companies",
	types.ContentTypeNews:       "news",
	types.ContentTypeIndication: "indications",
}

type catalogRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCatalogRepository(client *firestore.Client) *catalogRepository {
	return &catalogRepository{
		client: client,
	}
}

func (r *catalogRepository) collection(contentType types.ContentType) (*firestore.CollectionRef, error) {
	name, ok := catalogCollections[contentType]
	if !ok {
		return nil, goerr.New("invalid content type", goerr.V("content_type", contentType))
	}
	return r.client.Collection(r.collectionPrefix + name), nil
}

func (r *catalogRepository) Put(ctx context.Context, content model.Content) error {
	if content == nil || content.ContentID() == "" {
		return goerr.New("content ID is required")
	}

	col, err := r.collection(content.ContentType())
	if err != nil {
		return err
	}

	if _, err := col.Doc(content.ContentID()).Set(ctx, content); err != nil {
		return goerr.Wrap(err, "failed to put catalog record",
			goerr.V("content_type", content.ContentType()),
			goerr.V("content_id", content.ContentID()))
	}
	return nil
}

func (r *catalogRepository) List(ctx context.Context, contentType types.ContentType, limit int) ([]model.Content, error) {
	col, err := r.collection(contentType)
	if err != nil {
		return nil, err
	}

	q := col.Query
	if contentType == types.ContentTypeNews {
		q = q.OrderBy("PublishedAt", firestore.Desc)
	}
	q = q.OrderBy(firestore.DocumentID, firestore.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var result []model.Content
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate catalog", goerr.V("content_type", contentType))
		}

		content, err := docToContent(contentType, doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal catalog record",
				goerr.V("content_type", contentType),
				goerr.V("id", doc.Ref.ID))
		}
		result = append(result, content)
	}

	if result == nil {
		result = []model.Content{}
	}
	return result, nil
}

func (r *catalogRepository) Clear(ctx context.Context, contentType types.ContentType) (int, error) {
	col, err := r.collection(contentType)
	if err != nil {
		return 0, err
	}
	return deleteAll(ctx, r.client, col.Query)
}

func docToContent(contentType types.ContentType, doc *firestore.DocumentSnapshot) (model.Content, error) {
	var content model.Content
	switch contentType {
	case types.ContentTypeTrial:
		content = &model.Trial{}
	case types.ContentTypeCompany:
		content = &model.Company{}
	case types.ContentTypeNews:
		content = &model.NewsArticle{}
	case types.ContentTypeIndication:
		content = &model.Indication{}
	default:
		return nil, goerr.New("invalid content type", goerr.V("content_type", contentType))
	}

	if err := doc.DataTo(content); err != nil {
		return nil, err
	}
	return content, nil
}
