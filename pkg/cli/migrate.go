package cli

import (
	"context"

	"github.com/competeai/competeai/pkg/cli/config"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/repository/firestore"
	"github.com/competeai/competeai/pkg/repository/postgres"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/competeai/competeai/pkg/utils/safe"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var dryRun bool
	var dimension int
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview changes without applying",
			Destination: &dryRun,
		},
		&cli.IntFlag{
			Name:        "embedding-dimension",
			Usage:       "Dimension of the Firestore vector index",
			Value:       model.EmbeddingDimension,
			Sources:     cli.EnvVars("COMPETEAI_EMBEDDING_DIMENSION"),
			Destination: &dimension,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore vector indexes or the PostgreSQL schema",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Migrate configuration",
				"repository", repoCfg,
				"dimension", dimension,
				"dryRun", dryRun)

			switch repoCfg.Backend() {
			case config.BackendFirestore:
				if repoCfg.ProjectID() == "" {
					return goerr.Wrap(config.ErrInvalidConfig, "firestore-project-id is required")
				}
				return migrateFirestore(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID(),
					firestore.IndexConfig(repoCfg.CollectionPrefix(), dimension), dryRun)

			case config.BackendPostgres:
				return migratePostgres(ctx, &repoCfg, dryRun)

			default:
				logger.Info("Nothing to migrate", "backend", repoCfg.Backend())
				return nil
			}
		},
	}
}

func migrateFirestore(ctx context.Context, projectID, databaseID string, indexConfig *fireconf.Config, dryRun bool) error {
	logger := logging.Default()

	client, err := fireconf.NewClient(ctx, projectID, databaseID)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer safe.Close(ctx, client, "fireconf client")

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		plan, err := client.GetMigrationPlan(ctx, indexConfig)
		if err != nil {
			return goerr.Wrap(err, "failed to create migration plan")
		}

		if len(plan.Steps) == 0 {
			logger.Info("No changes required")
			return nil
		}

		for _, step := range plan.Steps {
			logger.Info("Migration step",
				"collection", step.Collection,
				"operation", step.Operation,
				"description", step.Description,
				"destructive", step.Destructive)
		}
		return nil
	}

	logger.Info("Applying index migrations")
	if err := client.Migrate(ctx, indexConfig); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

func migratePostgres(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()

	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to initialize repository")
	}
	defer safe.Close(ctx, repo, "repository")

	pg, ok := repo.(*postgres.Postgres)
	if !ok {
		return goerr.New("repository is not a postgres backend")
	}

	if dryRun {
		version, dirty, err := postgres.SchemaVersion(pg.DB())
		if err != nil {
			return goerr.Wrap(err, "failed to read schema version")
		}
		logger.Info("Dry run mode - current schema", "version", version, "dirty", dirty)
		return nil
	}

	version, err := postgres.Migrate(pg.DB())
	if err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully", "version", version)
	return nil
}
