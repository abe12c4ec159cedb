package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/talentalign/internal/schemas"
	"github.com/jonathan/talentalign/internal/types"
)

// MsgUnreachable is shown for every network failure or timeout.
const MsgUnreachable = "Cannot reach the analysis service."

// APIError is a non-2xx response from the service. Detail is the service's own message.
type APIError struct {
	Status int
	Detail string
	Path   string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s returned %d %s", e.Path, e.Status, http.StatusText(e.Status))
}

// TransportError is a request that never produced a response: connection failure,
// timeout or cancellation.
type TransportError struct {
	Path  string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Path, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the request gave up waiting.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Cause, &t) && t.Timeout()
}

// ResponseError is a 2xx response whose body could not be used.
type ResponseError struct {
	Path  string
	Cause error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %v", e.Path, e.Cause)
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}

// IsUnauthorized reports whether the service rejected the credential token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// Message converts err into the single line shown to the user.
// Local validation messages and service details are shown verbatim; network failures
// get a generic message; anything else falls back to fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var vErr *types.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fallback
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return MsgUnreachable
	}
	var sErr *schemas.ValidationError
	if errors.As(err, &sErr) {
		return fallback
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}

// parseDetail extracts the "detail" field of an error body. Validation failures from the
// service carry a list of {loc, msg} objects, which are joined.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			if field := lastLoc(it.Loc); field != "" {
				msgs = append(msgs, fmt.Sprintf("%s: %s", field, it.Msg))
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}
