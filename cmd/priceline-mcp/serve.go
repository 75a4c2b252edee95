package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/priceline-mcp/internal/app"
	"github.com/bobmcallan/priceline-mcp/internal/common"
	"github.com/bobmcallan/priceline-mcp/internal/config"
)

var (
	servePort  int
	serveStdio bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server (stdio by default, or streamable HTTP)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (overrides config)")
	serveCmd.Flags().BoolVar(&serveStdio, "stdio", false, "Force the stdio transport")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	config.ApplyFlagOverrides(cfg, servePort, serveStdio)
	if err := validate(cfg); err != nil {
		return err
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().
		Str("version", config.GetVersion()).
		Str("transport", cfg.Server.Transport).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize application")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := supervise(ctx, application, logger); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server stopped with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// runner is the long-running part of the application.
type runner interface {
	Run(ctx context.Context) error
}

// supervise runs r until it returns or ctx ends. A watcher logs the shutdown
// request so a slow drain is visible. The watcher exits when r returns on its
// own, e.g. when a stdio client closes stdin.
func supervise(ctx context.Context, r runner, logger *common.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	stopped := make(chan struct{})

	g.Go(func() error {
		defer close(stopped)
		return r.Run(gctx)
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			logger.Info().Msg("shutdown requested, draining in-flight calls")
		case <-stopped:
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
