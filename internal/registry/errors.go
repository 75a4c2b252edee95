package registry

import (
	"errors"
	"fmt"
)

// ErrRegistrySealed is returned by Register once the registration phase is over.
var ErrRegistrySealed = errors.New("registry is sealed")

// UnknownToolError reports a lookup of a name that was never registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// DuplicateToolError reports a second registration under the same name.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %s already registered", e.Name)
}

// InvalidSpecError reports a self-contradictory descriptor. Parameter is empty
// when the problem is with the tool itself.
type InvalidSpecError struct {
	Tool      string
	Parameter string
	Reason    string
}

func (e *InvalidSpecError) Error() string {
	if e.Parameter != "" {
		return fmt.Sprintf("invalid spec for tool %s, parameter %s: %s", e.Tool, e.Parameter, e.Reason)
	}
	return fmt.Sprintf("invalid spec for tool %s: %s", e.Tool, e.Reason)
}
