// Package logging holds the levelled log helpers shared by the server, the
// CLI and the storage layer.
package logging

import (
	"context"
	"log"
)

type contextKey string

// RequestIDKey is the context key the request-id middleware stores ids under.
const RequestIDKey contextKey = "request_id"

// Info logs an info-level message.
func Info(format string, v ...any) {
	log.Printf("[INFO] "+format, v...)
}

// Warn logs a warning-level message.
func Warn(format string, v ...any) {
	log.Printf("[WARN] "+format, v...)
}

// Fatal logs a fatal error and exits.
func Fatal(format string, v ...any) {
	log.Fatalf("[FATAL] "+format, v...)
}

// InfoCtx is Info with the request id prefixed when ctx carries one.
func InfoCtx(ctx context.Context, format string, v ...any) {
	if reqID := RequestID(ctx); reqID != "" {
		Info("[request_id=%v] "+format, append([]any{reqID}, v...)...)
		return
	}
	Info(format, v...)
}

// WarnCtx is Warn with the request id prefixed when ctx carries one.
func WarnCtx(ctx context.Context, format string, v ...any) {
	if reqID := RequestID(ctx); reqID != "" {
		Warn("[request_id=%v] "+format, append([]any{reqID}, v...)...)
		return
	}
	Warn(format, v...)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}
