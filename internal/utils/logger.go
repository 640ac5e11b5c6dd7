package utils

import (
	"context"
	"log"
	"strings"
)

type requestIDCtxKey struct{}

// WithRequestID stamps the request id onto a context so services reached
// through context.Context can correlate their log lines with the HTTP access
// log.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, requestID)
}

// RequestIDFrom returns the request id carried by the context, or "" for
// background work such as the expiry sweep.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes one line per domain event: module tag, action, request id,
// then key=val detail. Background callers pass an empty request id, rendered
// as "-" so the column stays greppable.
func LogEvent(requestID, module, action, message string) {
	rid := strings.TrimSpace(requestID)
	if rid == "" {
		rid = "-"
	}
	log.Printf("[%s] action=%s request_id=%s %s", strings.ToUpper(module), action, rid, message)
}
