package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/priceline-mcp/internal/common"
	"github.com/bobmcallan/priceline-mcp/internal/config"
	"github.com/bobmcallan/priceline-mcp/internal/dispatch"
	"github.com/bobmcallan/priceline-mcp/internal/registry"
)

// NewServer creates the MCP server with every catalogue tool plus get_version.
// reg must be sealed.
func NewServer(name string, reg *registry.Registry, d *dispatch.Dispatcher, logger *common.Logger) (*server.MCPServer, error) {
	if !reg.Sealed() {
		return nil, errors.New("tool registry must be sealed before serving")
	}
	if _, err := reg.Lookup(VersionToolName); err == nil {
		return nil, fmt.Errorf("catalog must not define reserved tool %s", VersionToolName)
	}

	inflight := newInflightCalls()
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(inflight.tag)

	s := server.NewMCPServer(
		name,
		config.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(hooks),
		server.WithToolHandlerMiddleware(inflight.middleware),
	)
	s.AddNotificationHandler(methodCancelled, inflight.cancelled)

	count := RegisterTools(s, reg, d)
	s.AddTool(VersionTool(), VersionToolHandler(name, reg))

	logger.Info().Str("name", name).Int("tools", count).Msg("MCP tools registered")
	return s, nil
}

// ServeStdio speaks MCP over the given reader and writer. It returns nil when
// ctx is cancelled or the input is closed.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, logger *common.Logger) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(log.New(io.Discard, "", 0))

	logger.Info().Msg("MCP stdio transport listening")
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info().Msg("MCP stdio transport stopped")
	return nil
}
