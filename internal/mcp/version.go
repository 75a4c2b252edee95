package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/priceline-mcp/internal/config"
	"github.com/bobmcallan/priceline-mcp/internal/registry"
)

// VersionToolName is reserved; the catalogue cannot shadow it.
const VersionToolName = "get_version"

// versionInfo is the get_version payload.
type versionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
	Tools   int    `json:"tools"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool(VersionToolName,
		mcp.WithDescription("Get the Priceline MCP server version and the number of upstream tools. Use this to verify connectivity."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// VersionToolHandler reports build information without calling the upstream.
func VersionToolHandler(name string, reg *registry.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(versionInfo{
			Name:    name,
			Version: config.GetVersion(),
			Build:   config.GetBuild(),
			Commit:  config.GetGitCommit(),
			Tools:   reg.Len(),
		})
		if err != nil {
			return mcp.NewToolResultError("failed to marshal version info"), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}
