package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name         string `toml:"name"`
	Transport    string `toml:"transport"` // "stdio" or "http"
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	EndpointPath string `toml:"endpoint_path"`
}

// Addr returns the listen address for the streamable HTTP transport.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig contains settings for the RapidAPI-hosted travel API.
type UpstreamConfig struct {
	BaseURL string `toml:"base_url"`
	Host    string `toml:"host"`
	APIKey  string `toml:"api_key"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the per-call timeout.
func (c UpstreamConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultUpstreamTimeout
	}
	return d
}

// CatalogConfig selects the tool catalogue. An empty path means the embedded one.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files. Empty paths are skipped.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// RAPID_API_KEY keeps the name the upstream's own tooling uses.
func applyEnvOverrides(config *Config) {
	if key := os.Getenv("RAPID_API_KEY"); key != "" {
		config.Upstream.APIKey = key
	}
	if baseURL := os.Getenv("PRICELINE_BASE_URL"); baseURL != "" {
		config.Upstream.BaseURL = baseURL
	}
	if host := os.Getenv("PRICELINE_HOST"); host != "" {
		config.Upstream.Host = host
	}
	if timeout := os.Getenv("PRICELINE_TIMEOUT"); timeout != "" {
		config.Upstream.Timeout = timeout
	}
	if transport := os.Getenv("PRICELINE_MCP_TRANSPORT"); transport != "" {
		config.Server.Transport = transport
	}
	if host := os.Getenv("PRICELINE_MCP_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("PRICELINE_MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if path := os.Getenv("PRICELINE_CATALOG_PATH"); path != "" {
		config.Catalog.Path = path
	}
	if level := os.Getenv("PRICELINE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, stdio bool) {
	if port > 0 {
		config.Server.Port = port
	}
	if stdio {
		config.Server.Transport = TransportStdio
	}
}

// Validate returns a list of configuration problems. An empty API key is
// deliberately not reported: it only surfaces as an upstream 401/403.
func (c *Config) Validate() []string {
	var issues []string

	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		issues = append(issues, fmt.Sprintf("server.transport must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Server.Transport))
	}
	if c.Server.Transport == TransportHTTP {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port))
		}
		if !strings.HasPrefix(c.Server.EndpointPath, "/") {
			issues = append(issues, fmt.Sprintf("server.endpoint_path must start with /, got %q", c.Server.EndpointPath))
		}
	}

	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		issues = append(issues, fmt.Sprintf("upstream.base_url must be an absolute http(s) URL, got %q", c.Upstream.BaseURL))
	}
	if c.Upstream.Host == "" {
		issues = append(issues, "upstream.host is required")
	}
	if c.Upstream.Timeout != "" {
		if d, err := time.ParseDuration(c.Upstream.Timeout); err != nil || d <= 0 {
			issues = append(issues, fmt.Sprintf("upstream.timeout must be a positive duration, got %q", c.Upstream.Timeout))
		}
	}

	return issues
}
