package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/priceline-mcp/internal/common"
)

// Request headers checked for a caller-supplied correlation id, in order.
// The chosen id is echoed back in HeaderCorrelationID.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// maxBodySize caps JSON-RPC request bodies.
const maxBodySize = 1 << 20

type middleware func(http.Handler) http.Handler

// chain wraps h so that mws run in the order given.
func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func (s *Server) withMiddleware(h http.Handler) http.Handler {
	return chain(h,
		s.correlationIDMiddleware,
		s.loggingMiddleware,
		s.maxBodySizeMiddleware(maxBodySize),
		s.recoveryMiddleware,
	)
}

// correlationID returns the id stored by correlationIDMiddleware, or "".
func correlationID(ctx context.Context) string {
	id, _ := common.GetCorrelationID(ctx)
	return id
}

func (s *Server) correlationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = r.Header.Get(HeaderCorrelationID)
		}
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, id)
		next.ServeHTTP(w, r.WithContext(common.WithCorrelationID(r.Context(), id)))
	})
}

// loggingMiddleware logs one line per request. Successful requests log at
// debug so MCP traffic stays quiet at the default level.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		logger := s.logger.WithCorrelationId(correlationID(r.Context()))
		event := logger.Debug()
		switch {
		case rw.statusCode >= http.StatusInternalServerError:
			event = logger.Error()
		case rw.statusCode >= http.StatusBadRequest:
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Int("bytes", rw.bytesWritten).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("http request")
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().
					Str("correlation_id", correlationID(r.Context())).
					Str("path", r.URL.Path).
					Str("panic", fmtPanic(rec)).
					Msg("handler panic")
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error": "Internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) maxBodySizeMiddleware(limit int64) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter records the status and size written by the wrapped handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// Flush lets streamed MCP responses through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
