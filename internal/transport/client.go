// Package transport issues the upstream HTTP calls behind every tool.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/priceline-mcp/internal/common"
	"github.com/bobmcallan/priceline-mcp/internal/config"
)

// maxResponseSize caps the upstream response body. Larger bodies fail with
// ErrResponseTooLarge.
var maxResponseSize int64 = 50 << 20 // 50MB

// Header names the RapidAPI gateway authenticates with.
const (
	HeaderHost = "x-rapidapi-host"
	HeaderKey  = "x-rapidapi-key"
)

// Param is one outbound query parameter. Order is preserved on the wire.
type Param struct {
	Key   string
	Value string
}

// Client performs upstream GETs. It is safe for concurrent use.
type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
}

// New creates a client. Host and credential are captured once here.
func New(cfg config.UpstreamConfig, logger *common.Logger) *Client {
	return &Client{
		host:   cfg.Host,
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		logger: logger,
	}
}

// HasCredential reports whether an API key was configured.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// Get calls rawURL once with params as the query string and returns the
// decoded JSON body. Numbers are decoded as json.Number.
func (c *Client) Get(ctx context.Context, rawURL string, params []Param) (any, error) {
	target := rawURL
	if q := encodeQuery(params); q != "" {
		target += "?" + q
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Err: err}
	}
	req.Header.Set(HeaderHost, c.host)
	req.Header.Set(HeaderKey, c.apiKey)
	req.Header.Set("Accept", "application/json")

	logger := c.logger
	if id, ok := common.GetCorrelationID(ctx); ok {
		logger = logger.WithCorrelationId(id)
	}

	logger.Debug().Str("method", http.MethodGet).Str("url", rawURL).Int("params", len(params)).Msg("upstream request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		failure := classify(ctx, err)
		logger.Warn().Str("url", rawURL).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("upstream request failed")
		return nil, failure
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("failed to read response: %w", err))
	}
	if int64(len(body)) > maxResponseSize {
		logger.Warn().Str("url", rawURL).Int("status", resp.StatusCode).Int64("limit", maxResponseSize).Msg("upstream response too large")
		return nil, &Error{Status: resp.StatusCode, Body: truncateBody(body), Err: ErrResponseTooLarge}
	}

	logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Int("bytes", len(body)).Msg("upstream response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Body: truncateBody(body)}
	}

	payload, err := decodeJSON(body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Body: truncateBody(body), Err: err}
	}
	return payload, nil
}

// encodeQuery renders params in the order given. url.Values would sort them.
func encodeQuery(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after value")
	}
	return v, nil
}

// classify maps a round-trip failure onto the transport error types.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &CancelledError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Timeout: true, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Timeout: true, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &CancelledError{Err: err}
	}
	return &Error{Err: err}
}
