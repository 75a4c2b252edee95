package config

import "time"

// Transport names accepted in server.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// DefaultUpstreamTimeout bounds a single upstream call when upstream.timeout is unset or invalid.
const DefaultUpstreamTimeout = 30 * time.Second

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:         "priceline-com-provider",
			Transport:    TransportStdio,
			Host:         "localhost",
			Port:         9997,
			EndpointPath: "/mcp",
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://priceline-com-provider.p.rapidapi.com",
			Host:    "priceline-com-provider.p.rapidapi.com",
			Timeout: "30s",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/priceline-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
