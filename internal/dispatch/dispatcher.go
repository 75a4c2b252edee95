// Package dispatch turns a tool invocation into exactly one upstream call.
package dispatch

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/priceline-mcp/internal/common"
	"github.com/bobmcallan/priceline-mcp/internal/registry"
	"github.com/bobmcallan/priceline-mcp/internal/transport"
)

// Getter is the upstream side of a dispatch. *transport.Client implements it.
type Getter interface {
	Get(ctx context.Context, rawURL string, params []transport.Param) (any, error)
}

// Request is a single tool invocation. Arguments holds decoded JSON values.
type Request struct {
	Tool      string
	Arguments map[string]any
}

// Dispatcher validates invocations against the registry and forwards them.
// It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	registry  *registry.Registry
	transport Getter
	logger    *common.Logger
}

// New creates a dispatcher over a sealed registry.
func New(reg *registry.Registry, getter Getter, logger *common.Logger) *Dispatcher {
	return &Dispatcher{
		registry:  reg,
		transport: getter,
		logger:    logger,
	}
}

// Invoke runs one tool call and returns the upstream payload unchanged.
//
// Failures are one of *registry.UnknownToolError, *UnknownParameterError,
// *MissingParameterError, *ParameterTypeError, *transport.Error or
// *transport.CancelledError. Only a fully valid call reaches the network.
// Log lines carry the correlation id from ctx, or a fresh one that is also
// passed on to the transport.
func (d *Dispatcher) Invoke(ctx context.Context, req Request) (any, error) {
	id, ok := common.GetCorrelationID(ctx)
	if !ok {
		id = uuid.NewString()
		ctx = common.WithCorrelationID(ctx, id)
	}
	logger := d.logger.WithCorrelationId(id)

	desc, err := d.registry.Lookup(req.Tool)
	if err != nil {
		logger.Warn().Str("tool", req.Tool).Msg("unknown tool")
		return nil, err
	}

	params, err := BuildParams(desc, req.Arguments)
	if err != nil {
		logger.Warn().Str("tool", req.Tool).Err(err).Msg("invalid arguments")
		return nil, err
	}

	logger.Info().Str("tool", desc.Name).Int("params", len(params)).Msg("dispatching tool call")

	start := time.Now()
	payload, err := d.transport.Get(ctx, desc.Endpoint.URL, params)
	if err != nil {
		err = asTransportError(err)
		logger.Warn().Str("tool", desc.Name).Int64("duration_ms", time.Since(start).Milliseconds()).Err(err).Msg("tool call failed")
		return nil, err
	}

	logger.Debug().Str("tool", desc.Name).Int64("duration_ms", time.Since(start).Milliseconds()).Msg("tool call completed")
	return payload, nil
}

// BuildParams validates args against desc and returns the outbound query
// parameters in declaration order. Absent optional parameters without a
// default are omitted. A JSON null counts as absent. Argument names that
// match no declared parameter are rejected once every declared parameter
// has passed.
func BuildParams(desc registry.ToolDescriptor, args map[string]any) ([]transport.Param, error) {
	params := make([]transport.Param, 0, len(desc.Parameters))
	for _, spec := range desc.Parameters {
		value, supplied := args[spec.Key]
		if value == nil {
			supplied = false
		}

		switch {
		case supplied:
			text, ok := spec.Format(value)
			if !ok {
				return nil, &ParameterTypeError{
					Tool:      desc.Name,
					Parameter: spec.Key,
					Expected:  spec.Expected(),
					Received:  value,
				}
			}
			params = append(params, transport.Param{Key: spec.Key, Value: text})
		case spec.HasDefault():
			// Defaults were checked at registration.
			text, _ := spec.Format(spec.Default)
			params = append(params, transport.Param{Key: spec.Key, Value: text})
		case spec.Required:
			return nil, &MissingParameterError{Tool: desc.Name, Parameter: spec.Key}
		}
	}

	// Declared parameters are checked first, so a call with both a typo and
	// a missing or malformed argument reports the latter.
	names := slices.Sorted(maps.Keys(args))
	for _, name := range names {
		if _, ok := desc.Parameter(name); !ok {
			return nil, &UnknownParameterError{Tool: desc.Name, Parameter: name}
		}
	}
	return params, nil
}

// asTransportError keeps the failure inside the transport taxonomy.
func asTransportError(err error) error {
	var te *transport.Error
	var ce *transport.CancelledError
	if errors.As(err, &te) || errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return &transport.CancelledError{Err: err}
	}
	return &transport.Error{Err: err}
}
