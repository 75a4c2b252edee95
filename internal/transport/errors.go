package transport

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// maxErrorBody caps how much of an upstream body is kept on an Error.
const maxErrorBody = 1 << 10

// ErrResponseTooLarge is the Err of an Error whose body exceeded the
// response size cap.
var ErrResponseTooLarge = errors.New("response body too large")

// Error is any upstream failure other than caller cancellation: a non-2xx
// status, an undecodable body, a timeout, or a network fault.
type Error struct {
	Status  int    // 0 when no response was received
	Body    string // truncated to 1 KiB
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Timeout:
		return "upstream request timed out"
	case errors.Is(e.Err, ErrResponseTooLarge):
		return fmt.Sprintf("upstream returned %d with a body over the %d byte limit", e.Status, maxResponseSize)
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("upstream returned %d with undecodable body: %v", e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("upstream returned %d %s", e.Status, http.StatusText(e.Status))
	case e.Err != nil:
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
	return "upstream request failed"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CancelledError reports that the caller abandoned the invocation.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return "upstream request cancelled"
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

// truncateBody keeps at most maxErrorBody bytes, backing off to a UTF-8
// character boundary.
func truncateBody(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}
	cut := maxErrorBody
	for i := 1; i < utf8.UTFMax && !utf8.RuneStart(body[cut]); i++ {
		cut--
	}
	return string(body[:cut])
}
