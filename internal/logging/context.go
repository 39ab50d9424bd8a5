package logging

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// WithLogger returns a context carrying a request-scoped log entry.
func WithLogger(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the request-scoped log entry, or fallback when none is set.
func FromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if log, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok {
		return log
	}
	return fallback
}
