package firestore_test

import (
	"testing"

	"github.com/competeai/competeai/pkg/repository/firestore"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
)

func TestIndexConfig(t *testing.T) {
	cfg := firestore.IndexConfig("test_", 1536)

	gt.Array(t, cfg.Collections).Length(1)
	col := cfg.Collections[0]
	gt.Value(t, col.Name).Equal("test_embeddings")
	gt.Array(t, col.Indexes).Length(2)

	vectorOnly := col.Indexes[0].Fields
	gt.Array(t, vectorOnly).Length(1)
	gt.Value(t, vectorOnly[0].Path).Equal(firestore.EmbeddingField)
	gt.Value(t, vectorOnly[0].Vector.Dimension).Equal(1536)

	filtered := col.Indexes[1].Fields
	gt.Array(t, filtered).Length(2)
	gt.Value(t, filtered[0].Path).Equal(firestore.ContentTypeField)
	gt.Value(t, filtered[0].Order).Equal(fireconf.OrderAscending)
	gt.Value(t, filtered[1].Vector.Dimension).Equal(1536)
}
