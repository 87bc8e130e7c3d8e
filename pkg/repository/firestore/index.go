package firestore

import "github.com/m-mizutani/fireconf"

// IndexConfig returns the Firestore indexes required by the repository: a vector index for
// unfiltered nearest-neighbour queries and a composite one for queries filtered by content type.
func IndexConfig(collectionPrefix string, dimension int) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: collectionPrefix + EmbeddingsCollection,
				Indexes: []fireconf.Index{
					{
						Fields: []fireconf.IndexField{
							{
								Path:   EmbeddingField,
								Vector: &fireconf.VectorConfig{Dimension: dimension},
							},
						},
					},
					{
						Fields: []fireconf.IndexField{
							{Path: ContentTypeField, Order: fireconf.OrderAscending},
							{
								Path:   EmbeddingField,
								Vector: &fireconf.VectorConfig{Dimension: dimension},
							},
						},
					},
				},
			},
		},
	}
}
