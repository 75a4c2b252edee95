// Package common holds the logger shared by every priceline-mcp component.
package common

import (
	"os"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"

	"github.com/bobmcallan/priceline-mcp/internal/config"
)

const (
	timeFormat = "2006-01-02T15:04:05Z07:00"

	defaultLevel      = "info"
	defaultLogFile    = "logs/priceline-mcp.log"
	defaultMaxSize    = 500 * 1024
	defaultMaxBackups = 20
)

// Logger wraps arbor.ILogger to provide a consistent interface
type Logger struct {
	arbor.ILogger
}

// nopWriter drops every event. A silent logger installs it so nothing falls
// through to arbor's globally registered writers.
type nopWriter struct{}

func (w *nopWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *nopWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *nopWriter) GetFilePath() string                   { return "" }
func (w *nopWriter) Close() error                          { return nil }

// fileWriterConfig fills in rotation defaults for the "file" output.
func fileWriterConfig(cfg config.LoggingConfig) models.WriterConfiguration {
	wc := models.WriterConfiguration{
		Type:       models.LogWriterTypeFile,
		FileName:   cfg.FilePath,
		MaxSize:    int64(cfg.MaxSizeMB) << 20,
		MaxBackups: cfg.MaxBackups,
		TimeFormat: timeFormat,
	}
	if wc.FileName == "" {
		wc.FileName = defaultLogFile
	}
	if wc.MaxSize <= 0 {
		wc.MaxSize = defaultMaxSize
	}
	if wc.MaxBackups <= 0 {
		wc.MaxBackups = defaultMaxBackups
	}
	return wc
}

// NewLoggerFromConfig creates a logger from the [logging] section.
// Console output goes to stderr: in stdio mode stdout carries MCP JSON-RPC.
// Unknown output names are ignored.
func NewLoggerFromConfig(cfg config.LoggingConfig) *Logger {
	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console"}
	}

	l := arbor.NewLogger()
	for _, out := range outputs {
		switch out {
		case "console":
			l = l.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				Writer:     os.Stderr,
				TimeFormat: timeFormat,
			})
		case "file":
			l = l.WithFileWriter(fileWriterConfig(cfg))
		}
	}

	level := cfg.Level
	if level == "" {
		level = defaultLevel
	}
	l = l.WithMemoryWriter(models.WriterConfiguration{Type: models.LogWriterTypeMemory}).
		WithLevelFromString(level)

	return &Logger{ILogger: l}
}

// NewSilentLogger creates a logger that discards all output.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{&nopWriter{}})}
}

// WithCorrelationId returns a new Logger tagged with id. The dispatcher tags
// every tool invocation so its request and response lines can be joined.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
