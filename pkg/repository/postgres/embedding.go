package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pgvector/pgvector-go"
)

const embeddingColumns = `id, content_type, content_id, content, embedding, metadata, model, created_at, updated_at`

type embeddingRow struct {
	ID          string          `db:"id"`
	ContentType string          `db:"content_type"`
	ContentID   string          `db:"content_id"`
	Content     string          `db:"content"`
	Embedding   pgvector.Vector `db:"embedding"`
	Metadata    []byte          `db:"metadata"`
	Model       string          `db:"model"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type hitRow struct {
	embeddingRow
	Distance float64 `db:"distance"`
}

func (row *embeddingRow) toModel() (*model.EmbeddingRecord, error) {
	metadata := map[string]any{}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			return nil, goerr.Wrap(err, "failed to decode metadata", goerr.V("id", row.ID))
		}
	}

	return &model.EmbeddingRecord{
		ID:          model.EmbeddingRecordID(row.ID),
		ContentType: types.ContentType(row.ContentType),
		ContentID:   row.ContentID,
		Content:     row.Content,
		Embedding:   row.Embedding.Slice(),
		Metadata:    metadata,
		Model:       row.Model,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}, nil
}

type embeddingRepository struct {
	db *sqlx.DB
}

// updated_at is pushed at least one microsecond past the stored value so that
// re-embedding the same record always advances it
const upsertEmbeddingQuery = `
INSERT INTO embeddings (` + embeddingColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
ON CONFLICT (content_type, content_id) DO UPDATE SET
    content = EXCLUDED.content,
    embedding = EXCLUDED.embedding,
    metadata = EXCLUDED.metadata,
    model = EXCLUDED.model,
    updated_at = GREATEST(EXCLUDED.updated_at, embeddings.updated_at + interval '1 microsecond')
RETURNING ` + embeddingColumns

func (r *embeddingRepository) Upsert(ctx context.Context, record *model.EmbeddingRecord) (*model.EmbeddingRecord, error) {
	if err := record.Validate(0); err != nil {
		return nil, goerr.Wrap(err, "invalid embedding record")
	}

	id := record.ID
	if id == "" {
		id = model.NewEmbeddingRecordID()
	}

	metadata := record.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	rawMetadata, err := json.Marshal(metadata)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode metadata")
	}

	var row embeddingRow
	if err := r.db.GetContext(ctx, &row, upsertEmbeddingQuery,
		string(id),
		string(record.ContentType),
		record.ContentID,
		record.Content,
		pgvector.NewVector(record.Embedding),
		rawMetadata,
		record.Model,
		time.Now().UTC(),
	); err != nil {
		return nil, goerr.Wrap(err, "failed to upsert embedding",
			goerr.V("content_type", record.ContentType),
			goerr.V("content_id", record.ContentID))
	}

	return row.toModel()
}

func (r *embeddingRepository) Get(ctx context.Context, contentType types.ContentType, contentID string) (*model.EmbeddingRecord, error) {
	var row embeddingRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+embeddingColumns+` FROM embeddings WHERE content_type = $1 AND content_id = $2`,
		string(contentType), contentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "embedding not found",
				goerr.V("content_type", contentType),
				goerr.V("content_id", contentID))
		}
		return nil, goerr.Wrap(err, "failed to get embedding",
			goerr.V("content_type", contentType),
			goerr.V("content_id", contentID))
	}
	return row.toModel()
}

func (r *embeddingRepository) Exists(ctx context.Context, contentType types.ContentType, contentID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM embeddings WHERE content_type = $1 AND content_id = $2)`,
		string(contentType), contentID)
	if err != nil {
		return false, goerr.Wrap(err, "failed to check embedding",
			goerr.V("content_type", contentType),
			goerr.V("content_id", contentID))
	}
	return exists, nil
}

func (r *embeddingRepository) Query(ctx context.Context, vector []float32, k int, filter types.ContentType) ([]*model.SearchHit, error) {
	if k <= 0 || len(vector) == 0 {
		return []*model.SearchHit{}, nil
	}

	query := `SELECT ` + embeddingColumns + `, embedding <=> $1 AS distance FROM embeddings`
	args := []any{pgvector.NewVector(vector), k}
	if filter != "" {
		query += ` WHERE content_type = $3`
		args = append(args, string(filter))
	}
	query += ` ORDER BY distance, created_at, id LIMIT $2`

	var rows []hitRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, goerr.Wrap(err, "failed to query embeddings",
			goerr.V("filter", filter),
			goerr.V("k", k))
	}

	hits := make([]*model.SearchHit, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		hits = append(hits, &model.SearchHit{Record: rec, Distance: rows[i].Distance})
	}
	return hits, nil
}

func (r *embeddingRepository) Count(ctx context.Context, filter types.ContentType) (int, error) {
	var count int
	var err error
	if filter == "" {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM embeddings`)
	} else {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM embeddings WHERE content_type = $1`, string(filter))
	}
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count embeddings", goerr.V("filter", filter))
	}
	return count, nil
}

func (r *embeddingRepository) ClearAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM embeddings`)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to clear embeddings")
	}
	return rowsAffected(res)
}

func (r *embeddingRepository) ClearByType(ctx context.Context, contentType types.ContentType) (int, error) {
	if !contentType.IsValid() {
		return 0, goerr.New("invalid content type", goerr.V("content_type", contentType))
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM embeddings WHERE content_type = $1`, string(contentType))
	if err != nil {
		return 0, goerr.Wrap(err, "failed to clear embeddings", goerr.V("content_type", contentType))
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read affected rows")
	}
	return int(n), nil
}
