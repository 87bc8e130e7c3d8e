package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/competeai/competeai/pkg/cli/config"
	"github.com/competeai/competeai/pkg/usecase"
	"github.com/competeai/competeai/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdSearch() *cli.Command {
	var query string
	var contentType string
	var limit int
	var repoCfg config.Repository
	var llmCfg config.LLM
	var ragCfg config.RAG

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Question to answer",
			Required:    true,
			Destination: &query,
		},
		&cli.StringFlag{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "Restrict retrieval to one content type (trial, company, news, indication, all)",
			Destination: &contentType,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Number of documents retrieved",
			Destination: &limit,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, ragCfg.Flags()...)

	return &cli.Command{
		Name:  "search",
		Usage: "Answer one question from the indexed records and print the result as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			searchCfg, err := ragCfg.Configure()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo, "repository")

			p, err := configureProviders(ctx, &llmCfg)
			if err != nil {
				return err
			}

			ucOpts := append(p.useCaseOptions(nil), usecase.WithSearchConfig(searchCfg))
			uc := usecase.New(repo, ucOpts...)

			result, err := uc.Search.Search(ctx, usecase.SearchInput{
				Query:       query,
				ContentType: contentType,
				Limit:       limit,
			})
			if err != nil {
				return goerr.Wrap(err, "search failed")
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return goerr.Wrap(err, "failed to write result")
			}
			return nil
		},
	}
}
