package api

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
	"github.com/teris-io/shortid"

	"github.com/joeblew999/design-studio/internal/logging"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-Id"

// RequestLogger tags each request with an id and logs its outcome. The tagged
// entry is available to handlers through logging.FromContext.
func RequestLogger(log logrus.FieldLogger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		id := ctx.Header(RequestIDHeader)
		if id == "" {
			id, _ = shortid.Generate()
		}
		ctx.SetHeader(RequestIDHeader, id)

		u := ctx.URL()
		entry := log.WithFields(logrus.Fields{
			"req":    id,
			"method": ctx.Method(),
			"path":   u.Path,
		})

		start := time.Now()
		next(huma.WithContext(ctx, logging.WithLogger(ctx.Context(), entry)))

		entry = entry.WithFields(logrus.Fields{
			"status": ctx.Status(),
			"ms":     time.Since(start).Milliseconds(),
		})
		if ctx.Status() >= 500 {
			entry.Warn("request failed")
			return
		}
		entry.Info("request")
	}
}
