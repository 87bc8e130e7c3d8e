package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/competeai/competeai/pkg/cli/config"
	httpctrl "github.com/competeai/competeai/pkg/controller/http"
	"github.com/competeai/competeai/pkg/usecase"
	"github.com/competeai/competeai/pkg/utils/async"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/competeai/competeai/pkg/utils/safe"
	"github.com/competeai/competeai/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var addr string
	var development bool
	var enableMetrics bool
	var catalogPath string
	var indexOnStart bool
	var repoCfg config.Repository
	var llmCfg config.LLM
	var ragCfg config.RAG
	var indexerCfg config.Indexer

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("COMPETEAI_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "dev",
			Usage:       "Development mode: include raw provider errors in 5xx responses",
			Sources:     cli.EnvVars("COMPETEAI_DEV"),
			Destination: &development,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics on /metrics",
			Value:       true,
			Sources:     cli.EnvVars("COMPETEAI_METRICS"),
			Destination: &enableMetrics,
		},
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "TOML catalog loaded into the repository at start-up",
			Sources:     cli.EnvVars("COMPETEAI_CATALOG"),
			Destination: &catalogPath,
		},
		&cli.BoolFlag{
			Name:        "index-on-start",
			Usage:       "Run the batch indexer in the background once the server starts",
			Sources:     cli.EnvVars("COMPETEAI_INDEX_ON_START"),
			Destination: &indexOnStart,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, ragCfg.Flags()...)
	flags = append(flags, indexerCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Serve configuration",
				"repository", repoCfg,
				"llm", llmCfg,
				"search", ragCfg,
				"indexer", indexerCfg,
				"dev", development,
			)

			searchCfg, err := ragCfg.Configure()
			if err != nil {
				return err
			}
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

			var m *metrics.Metrics
			if enableMetrics {
				m = metrics.New()
			}

			ucOpts := append(p.useCaseOptions(m),
				usecase.WithSearchConfig(searchCfg),
				usecase.WithIndexConfig(indexCfg),
			)
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
			if indexOnStart {
				async.Dispatch(ctx, "index-on-start", func(ctx context.Context) error {
					_, err := uc.Index.Run(ctx, usecase.IndexInput{SkipExisting: true})
					return err
				})
			}

			providerTable, err := llmCfg.Providers()
			if err != nil {
				return goerr.Wrap(err, "failed to load provider table")
			}
			var active string
			if p.completer != nil {
				provider, err := llmCfg.Provider()
				if err != nil {
					return err
				}
				active = provider.ID
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithDevelopment(development),
				httpctrl.WithSummarize(uc.Summarize),
				httpctrl.WithProviders(providerTable, active),
			}
			if m != nil {
				httpOpts = append(httpOpts, httpctrl.WithMetrics(m))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc.Search, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			return runServer(ctx, server)
		},
	}
}

// runServer serves until SIGINT/SIGTERM or a listener error, then shuts down gracefully
func runServer(ctx context.Context, server *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logging.Default().Info("Starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return goerr.Wrap(err, "failed to start server", goerr.V("addr", server.Addr))
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		logging.Default().Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "failed to shutdown server gracefully")
		}

		logging.Default().Info("Server shutdown completed")
		return nil
	})

	return eg.Wait()
}
