// Package observability carries the client Logger through context.Context.
package observability

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	observabilityKey = contextKey("OBSERVABILITY")
	traceIdKey       = contextKey("TRACE_ID")
)

// Observability holds the Logger used by client components.
// nil *Observability are safe to use.
type Observability struct {
	Logger *slog.Logger
}

// Log returns inner Logger or slog.Default().
func (self *Observability) Log() *slog.Logger {
	if (nil == self) || (nil == self.Logger) {
		return slog.Default()
	}

	return self.Logger
}

// GetObservability returns ctx Observability.
func GetObservability(ctx context.Context) *Observability {
	if nil == ctx {
		return nil
	}
	rv, _ := ctx.Value(observabilityKey).(*Observability)
	return rv
}

// SetObservability returns new Context containing obs.
func SetObservability(ctx context.Context, obs *Observability) context.Context {
	return context.WithValue(ctx, observabilityKey, obs)
}

// SetTraceId returns new Context containing tId.
// Outbound requests made with this Context carry tId in their trace header.
func SetTraceId(ctx context.Context, tId string) context.Context {
	return context.WithValue(ctx, traceIdKey, tId)
}

// GetTraceId returns the ctx trace id or "".
func GetTraceId(ctx context.Context) string {
	tId, _ := ctx.Value(traceIdKey).(string)
	return tId
}
