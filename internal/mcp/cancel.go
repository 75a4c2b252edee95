package mcp

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// methodCancelled is the client notification that abandons a request.
const methodCancelled = "notifications/cancelled"

// callKeyHeader carries the in-flight key from the call hook to the tool
// middleware. The hook always overwrites it, so callers cannot supply one.
const callKeyHeader = "X-Priceline-Call-Key"

// inflightCalls lets notifications/cancelled stop a running tool call.
// Calls are keyed by session id and JSON-RPC request id. Requests without a
// session id (stateless HTTP) are not tracked; their HTTP request context
// already ends when the client goes away.
type inflightCalls struct {
	mu    sync.Mutex
	calls map[string]context.CancelFunc
}

func newInflightCalls() *inflightCalls {
	return &inflightCalls{calls: make(map[string]context.CancelFunc)}
}

func callKey(ctx context.Context, id any) (string, bool) {
	session := server.ClientSessionFromContext(ctx)
	if session == nil || session.SessionID() == "" || id == nil {
		return "", false
	}
	return fmt.Sprintf("%s/%v", session.SessionID(), id), true
}

// tag runs before every tools/call and records its key on the request.
func (f *inflightCalls) tag(ctx context.Context, id any, req *mcp.CallToolRequest) {
	h := req.Header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Del(callKeyHeader)
	if key, ok := callKey(ctx, id); ok {
		h.Set(callKeyHeader, key)
	}
	req.Header = h
}

// middleware gives each tagged call its own cancelable context.
func (f *inflightCalls) middleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key := req.Header.Get(callKeyHeader)
		if key == "" {
			return next(ctx, req)
		}

		ctx, cancel := context.WithCancel(ctx)
		f.mu.Lock()
		f.calls[key] = cancel
		f.mu.Unlock()

		defer func() {
			f.mu.Lock()
			delete(f.calls, key)
			f.mu.Unlock()
			cancel()
		}()
		return next(ctx, req)
	}
}

// cancelled handles notifications/cancelled. Unknown or finished ids are ignored.
func (f *inflightCalls) cancelled(ctx context.Context, n mcp.JSONRPCNotification) {
	key, ok := callKey(ctx, n.Params.AdditionalFields["requestId"])
	if !ok {
		return
	}
	f.mu.Lock()
	cancel, found := f.calls[key]
	f.mu.Unlock()
	if found {
		cancel()
	}
}

// active reports how many tracked calls are running.
func (f *inflightCalls) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
