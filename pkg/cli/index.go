package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/competeai/competeai/pkg/cli/config"
	"github.com/competeai/competeai/pkg/usecase"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/competeai/competeai/pkg/utils/safe"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdIndex() *cli.Command {
	var contentType string
	var limit int
	var skipExisting bool
	var force bool
	var catalogPath string
	var repoCfg config.Repository
	var llmCfg config.LLM
	var indexerCfg config.Indexer

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "Content type to index (trial, company, news, indication, all)",
			Value:       "all",
			Sources:     cli.EnvVars("COMPETEAI_INDEX_TYPE"),
			Destination: &contentType,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum records visited per content type (0 = no limit)",
			Destination: &limit,
		},
		&cli.BoolFlag{
			Name:        "skip-existing",
			Usage:       "Skip records that already have an embedding",
			Value:       true,
			Destination: &skipExisting,
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "Re-embed every record, including those already indexed",
			Destination: &force,
		},
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "TOML catalog loaded into the repository before indexing",
			Destination: &catalogPath,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, indexerCfg.Flags()...)

	return &cli.Command{
		Name:    "index",
		Aliases: []string{"i"},
		Usage:   "Generate embeddings for catalog records",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Index configuration",
				"type", contentType,
				"limit", limit,
				"skip_existing", skipExisting,
				"force", force,
				"repository", repoCfg,
				"llm", llmCfg,
				"indexer", indexerCfg,
			)

			indexCfg, err := indexerCfg.Configure()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo, "repository")

			p, err := configureProviders(ctx, &llmCfg, indexerCfg.EmbeddingOptions()...)
			if err != nil {
				return err
			}

			ucOpts := append(p.useCaseOptions(nil), usecase.WithIndexConfig(indexCfg))
			uc := usecase.New(repo, ucOpts...)

			if catalogPath != "" {
				catalog, err := config.LoadCatalog(catalogPath)
				if err != nil {
					return err
				}
				if _, err := uc.Seed.Seed(ctx, usecase.SeedInput{Catalog: catalog}); err != nil {
					return goerr.Wrap(err, "failed to load catalog")
				}
			}

			result, err := uc.Index.Run(ctx, usecase.IndexInput{
				ContentType:  contentType,
				Limit:        limit,
				SkipExisting: skipExisting,
				Force:        force,
			})
			if result != nil {
				printIndexSummary(os.Stdout, result)
			}
			if err != nil {
				return goerr.Wrap(err, "indexing aborted")
			}

			return nil
		},
	}
}

// printIndexSummary renders one row per content type and a total row
func printIndexSummary(w io.Writer, result *usecase.IndexResult) {
	header := color.New(color.Bold)
	ok := color.New(color.FgGreen)
	skip := color.New(color.FgYellow)
	bad := color.New(color.FgRed)

	_, _ = header.Fprintf(w, "%-12s %10s %10s %10s %10s\n", "TYPE", "CANDIDATES", "PROCESSED", "SKIPPED", "ERRORED")
	for _, s := range result.Summaries {
		_, _ = fmt.Fprintf(w, "%-12s %10d ", s.ContentType, s.Candidates)
		_, _ = ok.Fprintf(w, "%10d ", s.Processed)
		_, _ = skip.Fprintf(w, "%10d ", s.Skipped)
		if s.Errored > 0 {
			_, _ = bad.Fprintf(w, "%10d\n", s.Errored)
		} else {
			_, _ = fmt.Fprintf(w, "%10d\n", s.Errored)
		}
	}

	total := result.Total()
	_, _ = header.Fprintf(w, "%-12s %10d %10d %10d %10d\n", "TOTAL",
		total.Candidates, total.Processed, total.Skipped, total.Errored)
}
