// Package app wires the bridge components together with go.uber.org/dig.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/dig"

	"github.com/bobmcallan/priceline-mcp/internal/common"
	"github.com/bobmcallan/priceline-mcp/internal/config"
	"github.com/bobmcallan/priceline-mcp/internal/dispatch"
	"github.com/bobmcallan/priceline-mcp/internal/mcp"
	"github.com/bobmcallan/priceline-mcp/internal/registry"
	httpserver "github.com/bobmcallan/priceline-mcp/internal/server"
	"github.com/bobmcallan/priceline-mcp/internal/transport"
)

// App holds all application components and dependencies.
type App struct {
	Config     *config.Config
	Logger     *common.Logger
	Registry   *registry.Registry
	Transport  *transport.Client
	Dispatcher *dispatch.Dispatcher
	MCPServer  *server.MCPServer
}

// New builds and wires every component from cfg.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	c := dig.New()

	providers := []any{
		func() *config.Config { return cfg },
		func() *common.Logger { return logger },
		newRegistry,
		newTransport,
		newDispatcher,
		newMCPServer,
	}
	for _, p := range providers {
		if err := c.Provide(p); err != nil {
			return nil, err
		}
	}

	var a *App
	err := c.Invoke(func(
		reg *registry.Registry,
		client *transport.Client,
		d *dispatch.Dispatcher,
		s *server.MCPServer,
	) {
		a = &App{
			Config:     cfg,
			Logger:     logger,
			Registry:   reg,
			Transport:  client,
			Dispatcher: d,
			MCPServer:  s,
		}
	})
	if err != nil {
		return nil, dig.RootCause(err)
	}

	if !a.Transport.HasCredential() {
		logger.Warn().Msg("RAPID_API_KEY is not set, upstream calls will be rejected")
	}
	logger.Info().
		Str("upstream", cfg.Upstream.BaseURL).
		Int("tools", a.Registry.Len()).
		Msg("application initialization complete")

	return a, nil
}

// Run serves MCP on the configured transport until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	switch a.Config.Server.Transport {
	case config.TransportHTTP:
		return httpserver.New(a.Config.Server, a.MCPServer, a.Registry, a.Logger).Run(ctx)
	case config.TransportStdio, "":
		return mcp.ServeStdio(ctx, a.MCPServer, os.Stdin, os.Stdout, a.Logger)
	}
	return fmt.Errorf("unknown transport %q", a.Config.Server.Transport)
}

// newRegistry loads the catalogue from catalog.path, or the embedded one.
func newRegistry(cfg *config.Config, logger *common.Logger) (*registry.Registry, error) {
	if cfg.Catalog.Path != "" {
		reg, err := registry.LoadCatalogFile(cfg.Catalog.Path, cfg.Upstream.BaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.Catalog.Path).Int("tools", reg.Len()).Msg("loaded tool catalog from file")
		return reg, nil
	}
	reg, err := registry.DefaultCatalog(cfg.Upstream.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return reg, nil
}

func newTransport(cfg *config.Config, logger *common.Logger) *transport.Client {
	return transport.New(cfg.Upstream, logger)
}

func newDispatcher(reg *registry.Registry, client *transport.Client, logger *common.Logger) *dispatch.Dispatcher {
	return dispatch.New(reg, client, logger)
}

func newMCPServer(cfg *config.Config, reg *registry.Registry, d *dispatch.Dispatcher, logger *common.Logger) (*server.MCPServer, error) {
	return mcp.NewServer(cfg.Server.Name, reg, d, logger)
}
