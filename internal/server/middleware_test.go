package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/priceline-mcp/internal/common"
)

func newBareServer() *Server {
	return &Server{logger: common.NewSilentLogger()}
}

// --- Correlation ID Middleware ---

func TestCorrelationIDMiddleware_GeneratesID(t *testing.T) {
	s := newBareServer()

	handler := s.correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := common.GetCorrelationID(r.Context()); !ok {
			t.Error("expected correlation ID in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header")
	}
}

func TestCorrelationIDMiddleware_UsesProvidedID(t *testing.T) {
	s := newBareServer()

	handler := s.correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := correlationID(r.Context())
		if id != "test-request-id" {
			t.Errorf("expected test-request-id, got %s", id)
		}
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-request-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("X-Correlation-ID") != "test-request-id" {
		t.Errorf("expected X-Correlation-ID=test-request-id, got %s", w.Header().Get("X-Correlation-ID"))
	}
}

// --- Recovery Middleware ---

func TestRecoveryMiddleware_ReturnsInternalError(t *testing.T) {
	s := newBareServer()

	handler := s.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// --- Body Size Middleware ---

func TestMaxBodySizeMiddleware_RejectsLargeBody(t *testing.T) {
	s := newBareServer()

	var readErr error
	handler := s.maxBodySizeMiddleware(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(strings.Repeat("x", 64)))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if readErr == nil {
		t.Error("expected body over the limit to fail")
	}
}

// --- Logging Middleware ---

func TestLoggingMiddleware_CapturesStatusAndBytes(t *testing.T) {
	s := newBareServer()

	var captured *responseWriter
	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = w.(*responseWriter)
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	if captured.statusCode != http.StatusTeapot {
		t.Errorf("expected captured status 418, got %d", captured.statusCode)
	}
	if captured.bytesWritten != len("short and stout") {
		t.Errorf("expected %d bytes, got %d", len("short and stout"), captured.bytesWritten)
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("expected response status 418, got %d", w.Code)
	}
}

func TestChain_RunsInOrder(t *testing.T) {
	var order []string
	mark := func(name string) middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestCorrelationIDMiddleware_AcceptsCorrelationHeader(t *testing.T) {
	s := newBareServer()

	var seen string
	handler := s.correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = correlationID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderCorrelationID, "abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "abc" {
		t.Errorf("expected abc, got %q", seen)
	}
}
