package cli

import (
	"context"
	"fmt"

	"github.com/competeai/competeai/pkg/cli/config"
	"github.com/competeai/competeai/pkg/service/formatter"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var catalogPath string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a catalog file: every record must load and format into embedding text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "catalog",
				Aliases:     []string{"c"},
				Usage:       "TOML catalog file",
				Required:    true,
				Sources:     cli.EnvVars("COMPETEAI_CATALOG"),
				Destination: &catalogPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			catalog, err := config.LoadCatalog(catalogPath)
			if err != nil {
				return goerr.Wrap(err, "catalog validation failed")
			}

			var issues int
			for _, ct := range catalog.Types() {
				contents := catalog.Contents(ct)
				for _, content := range contents {
					if _, err := formatter.Format(content); err != nil {
						issues++
						logger.Warn("Record cannot be embedded",
							"content_type", ct,
							"content_id", content.ContentID(),
							"error", err.Error(),
						)
					}
				}
				logger.Info("Content type validated", "content_type", ct, "records", len(contents))
			}

			if issues > 0 {
				return fmt.Errorf("catalog validation found %d issue(s)", issues)
			}

			logger.Info("Catalog validation passed")
			return nil
		},
	}
}
