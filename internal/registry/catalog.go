package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// catalogFile is the on-disk shape of a tool catalogue.
type catalogFile struct {
	Tools []catalogTool `yaml:"tools"`
}

type catalogTool struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Method      string         `yaml:"method"`
	Path        string         `yaml:"path"`
	Params      []catalogParam `yaml:"params"`
}

type catalogParam struct {
	Key         string   `yaml:"key"`
	Kind        string   `yaml:"kind"`
	Required    bool     `yaml:"required"`
	Default     any      `yaml:"default"`
	Description string   `yaml:"description"`
	Enum        []string `yaml:"enum"`
	Minimum     *float64 `yaml:"minimum"`
	Maximum     *float64 `yaml:"maximum"`
}

// DefaultCatalog builds the registry from the embedded catalogue.
func DefaultCatalog(baseURL string) (*Registry, error) {
	return LoadCatalog(defaultCatalog, baseURL)
}

// LoadCatalogFile builds the registry from a catalogue file on disk.
func LoadCatalogFile(path, baseURL string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	reg, err := LoadCatalog(data, baseURL)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return reg, nil
}

// LoadCatalog parses a YAML catalogue, joins each tool path onto baseURL,
// registers every tool and seals the result. Unknown fields are rejected.
func LoadCatalog(data []byte, baseURL string) (*Registry, error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(file.Tools) == 0 {
		return nil, errors.New("catalog defines no tools")
	}

	base := strings.TrimRight(baseURL, "/")
	reg := New()
	for _, t := range file.Tools {
		d, err := t.descriptor(base)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	reg.Seal()
	return reg, nil
}

func (t catalogTool) descriptor(base string) (ToolDescriptor, error) {
	if t.Path != "" && !strings.HasPrefix(t.Path, "/") {
		return ToolDescriptor{}, &InvalidSpecError{Tool: t.Name, Reason: "path must start with /: " + t.Path}
	}
	method := t.Method
	if method == "" {
		method = http.MethodGet
	}

	params := make([]ParameterSpec, 0, len(t.Params))
	for _, p := range t.Params {
		params = append(params, ParameterSpec{
			Key:         p.Key,
			Kind:        Kind(p.Kind),
			Required:    p.Required,
			Default:     p.Default,
			Description: p.Description,
			Enum:        p.Enum,
			Minimum:     p.Minimum,
			Maximum:     p.Maximum,
		})
	}

	return ToolDescriptor{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  params,
		Endpoint:    Endpoint{Method: method, URL: base + t.Path},
	}, nil
}
