package cli

import (
	"context"

	"github.com/competeai/competeai/pkg/cli/config"
	"github.com/competeai/competeai/pkg/usecase"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/competeai/competeai/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var catalogPath string
	var reseed bool
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Aliases:     []string{"c"},
			Usage:       "TOML catalog file",
			Required:    true,
			Sources:     cli.EnvVars("COMPETEAI_CATALOG"),
			Destination: &catalogPath,
		},
		&cli.BoolFlag{
			Name:        "reseed",
			Usage:       "Delete the records and embeddings of every content type in the file first",
			Destination: &reseed,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load catalog records from a TOML file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			catalog, err := config.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo, "repository")

			uc := usecase.New(repo)
			result, err := uc.Seed.Seed(ctx, usecase.SeedInput{Catalog: catalog, Reseed: reseed})
			if err != nil {
				return goerr.Wrap(err, "failed to seed catalog", goerr.V("path", catalogPath))
			}

			for _, ct := range catalog.Types() {
				logger.Info("Seeded",
					"content_type", ct,
					"written", result.Written[ct],
					"cleared_records", result.ClearedRecords[ct],
					"cleared_embeddings", result.ClearedEmbeddings[ct],
				)
			}
			return nil
		},
	}
}
