package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
)

type catalogRow struct {
	ContentType string `db:"content_type"`
	ContentID   string `db:"content_id"`
	Payload     []byte `db:"payload"`
}

type catalogRepository struct {
	db *sqlx.DB
}

func (r *catalogRepository) Put(ctx context.Context, content model.Content) error {
	if content == nil || content.ContentID() == "" {
		return goerr.New("content ID is required")
	}

	payload, err := json.Marshal(content)
	if err != nil {
		return goerr.Wrap(err, "failed to encode catalog record")
	}

	var publishedAt sql.NullTime
	if news, ok := content.(*model.NewsArticle); ok && !news.PublishedAt.IsZero() {
		publishedAt = sql.NullTime{Time: news.PublishedAt.UTC(), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO catalog_items (content_type, content_id, published_at, payload)
VALUES ($1, $2, $3, $4)
ON CONFLICT (content_type, content_id) DO UPDATE SET
    published_at = EXCLUDED.published_at,
    payload = EXCLUDED.payload`,
		string(content.ContentType()), content.ContentID(), publishedAt, payload)
	if err != nil {
		return goerr.Wrap(err, "failed to put catalog record",
			goerr.V("content_type", content.ContentType()),
			goerr.V("content_id", content.ContentID()))
	}
	return nil
}

// LIMIT NULL is treated as no limit by PostgreSQL
func (r *catalogRepository) List(ctx context.Context, contentType types.ContentType, limit int) ([]model.Content, error) {
	if !contentType.IsValid() {
		return nil, goerr.New("invalid content type", goerr.V("content_type", contentType))
	}

	var limitArg sql.NullInt64
	if limit > 0 {
		limitArg = sql.NullInt64{Int64: int64(limit), Valid: true}
	}

	var rows []catalogRow
	err := r.db.SelectContext(ctx, &rows, `
SELECT content_type, content_id, payload FROM catalog_items
WHERE content_type = $1
ORDER BY published_at DESC NULLS LAST, content_id
LIMIT $2`, string(contentType), limitArg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list catalog", goerr.V("content_type", contentType))
	}

	result := make([]model.Content, 0, len(rows))
	for _, row := range rows {
		content, err := decodeContent(contentType, row.Payload)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode catalog record",
				goerr.V("content_type", contentType),
				goerr.V("content_id", row.ContentID))
		}
		result = append(result, content)
	}
	return result, nil
}

func (r *catalogRepository) Clear(ctx context.Context, contentType types.ContentType) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM catalog_items WHERE content_type = $1`, string(contentType))
	if err != nil {
		return 0, goerr.Wrap(err, "failed to clear catalog", goerr.V("content_type", contentType))
	}
	return rowsAffected(res)
}

func decodeContent(contentType types.ContentType, payload []byte) (model.Content, error) {
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

	if err := json.Unmarshal(payload, content); err != nil {
		return nil, err
	}
	return content, nil
}
