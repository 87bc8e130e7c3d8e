package postgres

import (
	"context"

	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"

	// postgres driver for database/sql
	_ "github.com/lib/pq"
)

const driverName = "postgres"

type Postgres struct {
	db        *sqlx.DB
	embedding *embeddingRepository
	catalog   *catalogRepository
}

var _ interfaces.Repository = &Postgres{}

// New connects to PostgreSQL. The schema must already exist; see Migrate.
func New(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to postgres")
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection pool
func NewWithDB(db *sqlx.DB) *Postgres {
	return &Postgres{
		db:        db,
		embedding: &embeddingRepository{db: db},
		catalog:   &catalogRepository{db: db},
	}
}

// DB returns the underlying connection pool
func (p *Postgres) DB() *sqlx.DB {
	return p.db
}

func (p *Postgres) Embedding() interfaces.EmbeddingRepository {
	return p.embedding
}

func (p *Postgres) Catalog() interfaces.CatalogRepository {
	return p.catalog
}

func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
