// Package mcp exposes the tool registry over the Model Context Protocol.
package mcp

import (
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/priceline-mcp/internal/dispatch"
	"github.com/bobmcallan/priceline-mcp/internal/registry"
)

// BuildTool converts a descriptor into an mcp.Tool with the matching input schema.
func BuildTool(d registry.ToolDescriptor) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(d.Description),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
	for _, p := range d.Parameters {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(d.Name, opts...)
}

// buildParamOption maps a ParameterSpec to the appropriate mcp-go tool option.
func buildParamOption(p registry.ParameterSpec) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Kind {
	case registry.KindNumber:
		if p.Minimum != nil {
			opts = append(opts, mcp.Min(*p.Minimum))
		}
		if p.Maximum != nil {
			opts = append(opts, mcp.Max(*p.Maximum))
		}
		if p.HasDefault() {
			if f, ok := numberDefault(p); ok {
				opts = append(opts, mcp.DefaultNumber(f))
			}
		}
		return mcp.WithNumber(p.Key, opts...)
	case registry.KindBoolean:
		if b, ok := p.Default.(bool); ok {
			opts = append(opts, mcp.DefaultBool(b))
		}
		return mcp.WithBoolean(p.Key, opts...)
	case registry.KindEnum:
		opts = append(opts, mcp.Enum(p.Enum...))
		if s, ok := p.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(s))
		}
		return mcp.WithString(p.Key, opts...)
	default:
		if s, ok := p.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(s))
		}
		return mcp.WithString(p.Key, opts...)
	}
}

// RegisterTools adds every registry entry to the server in registration order.
// Returns the number of tools registered.
func RegisterTools(s *server.MCPServer, reg *registry.Registry, d *dispatch.Dispatcher) int {
	count := 0
	for _, desc := range reg.List() {
		s.AddTool(BuildTool(desc), ToolHandler(d, desc.Name))
		count++
	}
	return count
}

// numberDefault renders a numeric default for the advertised schema.
func numberDefault(p registry.ParameterSpec) (float64, bool) {
	text, ok := p.Format(p.Default)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	return f, err == nil
}
