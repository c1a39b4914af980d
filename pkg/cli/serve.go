package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/hibana/pkg/cli/config"
	httpctrl "github.com/secmon-lab/hibana/pkg/controller/http"
	"github.com/secmon-lab/hibana/pkg/usecase"
	"github.com/secmon-lab/hibana/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var searchTimeout time.Duration
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var catalogCfg config.Catalog
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("HIBANA_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "search-timeout",
			Usage:       "Timeout for incident retrieval during analysis",
			Value:       5 * time.Second,
			Sources:     cli.EnvVars("HIBANA_SEARCH_TIMEOUT"),
			Destination: &searchTimeout,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sentryCloser, err := sentryCfg.Configure(c.Root().Version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer sentryCloser()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			scoringCfg, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load scoring catalog")
			}
			if scoringCfg != nil {
				logging.Default().Info("Using scoring catalog override", "path", catalogCfg.Path())
			}

			llm, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			ucOpts := []usecase.Option{
				usecase.WithSearchTimeout(searchTimeout),
			}
			if scoringCfg != nil {
				ucOpts = append(ucOpts, usecase.WithScoringConfig(scoringCfg))
			}
			if llm != nil {
				ucOpts = append(ucOpts, usecase.WithLLM(llm))
				logging.Default().Info("Narrative generation enabled")
			} else {
				logging.Default().Info("Gemini not configured, reports carry the deterministic score only")
			}

			uc := usecase.New(repo, ucOpts...)

			handler := httpctrl.New(uc,
				httpctrl.WithVersion(c.Root().Version),
				httpctrl.WithLLMEnabled(llm != nil),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
