// Package registry holds the catalogue of tools the bridge exposes. Each tool
// is plain data: a name, its parameters, and the upstream endpoint it maps to.
package registry

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind is the value type a parameter accepts.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number" // integer or float
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum" // string restricted to ParameterSpec.Enum
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindEnum:
		return true
	}
	return false
}

// Endpoint names the upstream resource a tool calls.
type Endpoint struct {
	Method string
	URL    string
}

// ParameterSpec describes one accepted argument. Key is both the argument
// name and the outbound query-parameter name.
type ParameterSpec struct {
	Key         string
	Kind        Kind
	Required    bool
	Default     any // nil means no default
	Description string
	Enum        []string
	Minimum     *float64
	Maximum     *float64
}

// HasDefault reports whether a default is substituted for an absent argument.
func (p ParameterSpec) HasDefault() bool {
	return p.Default != nil
}

// Expected describes the accepted values, for error messages.
func (p ParameterSpec) Expected() string {
	switch p.Kind {
	case KindEnum:
		return "one of [" + strings.Join(p.Enum, ", ") + "]"
	case KindNumber:
		switch {
		case p.Minimum != nil && p.Maximum != nil:
			return fmt.Sprintf("number in [%s, %s]", formatFloat(*p.Minimum), formatFloat(*p.Maximum))
		case p.Minimum != nil:
			return "number >= " + formatFloat(*p.Minimum)
		case p.Maximum != nil:
			return "number <= " + formatFloat(*p.Maximum)
		}
	}
	return string(p.Kind)
}

// Format checks v against the spec and renders it as a query-string value.
// The boolean result is false when v is not acceptable.
func (p ParameterSpec) Format(v any) (string, bool) {
	switch p.Kind {
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindEnum:
		s, ok := v.(string)
		if !ok || !slices.Contains(p.Enum, s) {
			return "", false
		}
		return s, true
	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return "", false
		}
		return strconv.FormatBool(b), true
	case KindNumber:
		text, f, ok := formatNumber(v)
		if !ok {
			return "", false
		}
		if p.Minimum != nil && f < *p.Minimum {
			return "", false
		}
		if p.Maximum != nil && f > *p.Maximum {
			return "", false
		}
		return text, true
	}
	return "", false
}

// formatNumber accepts the numeric shapes JSON and YAML decoders produce.
func formatNumber(v any) (string, float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", 0, false
		}
		return formatFloat(n), n, true
	case float32:
		return formatNumber(float64(n))
	case int:
		return strconv.Itoa(n), float64(n), true
	case int8:
		return formatNumber(int64(n))
	case int16:
		return formatNumber(int64(n))
	case int32:
		return formatNumber(int64(n))
	case int64:
		return strconv.FormatInt(n, 10), float64(n), true
	case uint:
		return formatNumber(uint64(n))
	case uint8:
		return formatNumber(uint64(n))
	case uint16:
		return formatNumber(uint64(n))
	case uint32:
		return formatNumber(uint64(n))
	case uint64:
		return strconv.FormatUint(n, 10), float64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10), float64(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return "", 0, false
		}
		return formatNumber(f)
	}
	return "", 0, false
}

// formatFloat renders f in its shortest exact decimal form: 6733503, 14.41854.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToolDescriptor is the static description of one callable tool.
type ToolDescriptor struct {
	Name        string
	Description string
	Parameters  []ParameterSpec
	Endpoint    Endpoint
}

// Parameter returns the spec declared under key.
func (d ToolDescriptor) Parameter(key string) (ParameterSpec, bool) {
	for _, p := range d.Parameters {
		if p.Key == key {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// clone deep-copies d so the registry never shares slices with callers.
func (d ToolDescriptor) clone() ToolDescriptor {
	out := d
	if d.Parameters != nil {
		out.Parameters = make([]ParameterSpec, len(d.Parameters))
		for i, p := range d.Parameters {
			if p.Enum != nil {
				p.Enum = slices.Clone(p.Enum)
			}
			if p.Minimum != nil {
				m := *p.Minimum
				p.Minimum = &m
			}
			if p.Maximum != nil {
				m := *p.Maximum
				p.Maximum = &m
			}
			out.Parameters[i] = p
		}
	}
	return out
}
