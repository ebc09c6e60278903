package metrics

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Middleware records request metrics for every huma operation, labelled by
// operation ID.
func Middleware(m *Metrics) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()
		next(ctx)
		if m != nil {
			m.RecordHTTPRequest(ctx.Operation().OperationID, ctx.Method(), ctx.Status(), time.Since(start).Seconds())
		}
	}
}

// HTTPMetricsMiddleware wraps a plain http.Handler registered outside huma.
func HTTPMetricsMiddleware(m *Metrics, handlerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			if m != nil {
				m.RecordHTTPRequest(handlerName, r.Method, wrapped.statusCode, time.Since(start).Seconds())
			}
		})
	}
}

// responseWriter captures the status code written by the wrapped handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
