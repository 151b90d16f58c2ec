package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/labops/labaudit/pkg/cli/config"
	httpctrl "github.com/labops/labaudit/pkg/controller/http"
	"github.com/labops/labaudit/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var catalogPath string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("LABAUDIT_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to the lab/category catalog TOML file",
			Sources:     cli.EnvVars("LABAUDIT_CATALOG"),
			Destination: &catalogPath,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the audit API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			var serverOpts []httpctrl.Option
			if catalogPath != "" {
				catalog, err := config.LoadCatalog(catalogPath)
				if err != nil {
					return goerr.Wrap(err, "failed to load catalog")
				}
				serverOpts = append(serverOpts, httpctrl.WithCatalog(catalog))
				logging.Default().Info("Catalog loaded",
					"labs", len(catalog.Labs),
					"categories", len(catalog.Categories),
				)
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(repo, serverOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "backend", repoCfg.Backend())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
