package registry

import (
	"net/http"
	"net/url"
	"strings"
)

// Registry is the ordered catalogue of tool descriptors.
//
// Registration happens once at startup from a single goroutine. After Seal the
// registry is read-only, so Lookup and List need no locking and are safe for
// any number of concurrent callers.
type Registry struct {
	order  []string
	tools  map[string]ToolDescriptor
	sealed bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		tools: make(map[string]ToolDescriptor),
	}
}

// Register validates d and adds it to the catalogue.
func (r *Registry) Register(d ToolDescriptor) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if err := validateDescriptor(d); err != nil {
		return err
	}
	if _, exists := r.tools[d.Name]; exists {
		return &DuplicateToolError{Name: d.Name}
	}

	d = d.clone()
	d.Endpoint.Method = strings.ToUpper(d.Endpoint.Method)
	r.tools[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Seal ends the registration phase.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (ToolDescriptor, error) {
	d, ok := r.tools[name]
	if !ok {
		return ToolDescriptor{}, &UnknownToolError{Name: name}
	}
	return d.clone(), nil
}

// List returns every descriptor in registration order.
func (r *Registry) List() []ToolDescriptor {
	out := make([]ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].clone())
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

func validateDescriptor(d ToolDescriptor) error {
	if d.Name == "" {
		return &InvalidSpecError{Reason: "tool name is empty"}
	}
	invalid := func(param, reason string) error {
		return &InvalidSpecError{Tool: d.Name, Parameter: param, Reason: reason}
	}

	// The transport only issues GETs.
	if !strings.EqualFold(d.Endpoint.Method, http.MethodGet) {
		return invalid("", "unsupported method "+d.Endpoint.Method)
	}
	u, err := url.Parse(d.Endpoint.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("", "endpoint URL must be absolute http(s): "+d.Endpoint.URL)
	}
	if u.RawQuery != "" {
		return invalid("", "endpoint URL must not carry a query string")
	}

	seen := make(map[string]bool, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Key == "" {
			return invalid("", "parameter key is empty")
		}
		if seen[p.Key] {
			return invalid(p.Key, "duplicate parameter key")
		}
		seen[p.Key] = true

		if !p.Kind.Valid() {
			return invalid(p.Key, "unknown kind "+string(p.Kind))
		}
		if p.Kind == KindEnum && len(p.Enum) == 0 {
			return invalid(p.Key, "enum kind with empty allowed-value set")
		}
		if p.Kind != KindEnum && len(p.Enum) > 0 {
			return invalid(p.Key, "allowed values given for non-enum kind")
		}
		if p.Kind != KindNumber && (p.Minimum != nil || p.Maximum != nil) {
			return invalid(p.Key, "bounds given for non-number kind")
		}
		if p.Minimum != nil && p.Maximum != nil && *p.Minimum > *p.Maximum {
			return invalid(p.Key, "minimum exceeds maximum")
		}
		if p.HasDefault() {
			if p.Required {
				return invalid(p.Key, "required parameter cannot have a default")
			}
			if _, ok := p.Format(p.Default); !ok {
				return invalid(p.Key, "default does not satisfy "+p.Expected())
			}
		}
	}
	return nil
}
