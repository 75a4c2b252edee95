package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/priceline-mcp/internal/dispatch"
	"github.com/bobmcallan/priceline-mcp/internal/registry"
	"github.com/bobmcallan/priceline-mcp/internal/transport"
)

// Failure stages reported to the client.
const (
	stageLookup     = "lookup"
	stageValidation = "validation"
	stageTransport  = "transport"
	stageCancelled  = "cancelled"
)

// toolError is the structured body of a failed tool call.
type toolError struct {
	Kind      string `json:"kind"`
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Tool      string `json:"tool,omitempty"`
	Parameter string `json:"parameter,omitempty"`
	Expected  string `json:"expected,omitempty"`
	Received  any    `json:"received,omitempty"`
	Status    int    `json:"status,omitempty"`
	Body      string `json:"body,omitempty"`
	Timeout   bool   `json:"timeout,omitempty"`
}

// ToolHandler routes an MCP tool call for name into the dispatcher.
func ToolHandler(d *dispatch.Dispatcher, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		payload, err := d.Invoke(ctx, dispatch.Request{Tool: name, Arguments: r.GetArguments()})
		if err != nil {
			te := describeError(err)
			if te.Tool == "" {
				te.Tool = name
			}
			return errorResult(te), nil
		}

		out, err := json.Marshal(payload)
		if err != nil {
			return errorResult(toolError{
				Kind:    "encoding",
				Stage:   stageTransport,
				Message: fmt.Sprintf("failed to encode upstream payload: %v", err),
				Tool:    name,
			}), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

// errorResult creates an MCP error result carrying te as JSON text.
func errorResult(te toolError) *mcp.CallToolResult {
	out, err := json.Marshal(map[string]toolError{"error": te})
	if err != nil {
		return mcp.NewToolResultError(te.Message)
	}
	return mcp.NewToolResultError(string(out))
}

// describeError maps the invocation error taxonomy onto toolError.
func describeError(err error) toolError {
	var (
		unknownTool  *registry.UnknownToolError
		missing      *dispatch.MissingParameterError
		unknownParam *dispatch.UnknownParameterError
		typeErr      *dispatch.ParameterTypeError
		cancelled    *transport.CancelledError
		upstream     *transport.Error
	)

	te := toolError{Message: err.Error()}
	switch {
	case errors.As(err, &unknownTool):
		te.Kind, te.Stage, te.Tool = "unknown_tool", stageLookup, unknownTool.Name
	case errors.As(err, &missing):
		te.Kind, te.Stage = "missing_parameter", stageValidation
		te.Tool, te.Parameter = missing.Tool, missing.Parameter
	case errors.As(err, &unknownParam):
		te.Kind, te.Stage = "unknown_parameter", stageValidation
		te.Tool, te.Parameter = unknownParam.Tool, unknownParam.Parameter
	case errors.As(err, &typeErr):
		te.Kind, te.Stage = "parameter_type", stageValidation
		te.Tool, te.Parameter = typeErr.Tool, typeErr.Parameter
		te.Expected, te.Received = typeErr.Expected, typeErr.Received
	case errors.As(err, &cancelled):
		te.Kind, te.Stage = "cancelled", stageCancelled
	case errors.As(err, &upstream):
		te.Kind, te.Stage = "transport", stageTransport
		te.Status, te.Body, te.Timeout = upstream.Status, upstream.Body, upstream.Timeout
	default:
		te.Kind, te.Stage = "internal", stageTransport
	}
	return te
}
