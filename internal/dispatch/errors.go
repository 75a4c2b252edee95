package dispatch

import "fmt"

// MissingParameterError reports a required parameter that was not supplied.
type MissingParameterError struct {
	Tool      string
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("tool %s: missing required parameter %s", e.Tool, e.Parameter)
}

// UnknownParameterError reports an argument the tool does not declare.
type UnknownParameterError struct {
	Tool      string
	Parameter string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("tool %s: unknown parameter %s", e.Tool, e.Parameter)
}

// ParameterTypeError reports an argument whose value does not fit its declared
// kind, allowed set or documented range.
type ParameterTypeError struct {
	Tool      string
	Parameter string
	Expected  string
	Received  any
}

func (e *ParameterTypeError) Error() string {
	return fmt.Sprintf("tool %s: parameter %s expects %s, received %s", e.Tool, e.Parameter, e.Expected, describe(e.Received))
}

// describe renders a received value with its JSON type, e.g. string "2".
func describe(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("string %q", x)
	case bool:
		return fmt.Sprintf("boolean %t", x)
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%v", v)
}
