package util

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextKey string

const correlationIDKey = contextKey("correlation_id")

// WithCorrelationID returns a context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the correlation ID carried by ctx, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// CtxLogger returns a logrus entry tagged with the correlation ID of ctx.
// Every log line of a request/workflow goes through this so the ID threads
// from ingress to the last downstream call.
func CtxLogger(ctx context.Context) *logrus.Entry {
	if id := CorrelationID(ctx); id != "" {
		return logrus.WithField("correlation_id", id)
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
