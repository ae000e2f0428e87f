package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"fitness-insights-go/internal/logger"
	"fitness-insights-go/internal/telemetry"
)

type ctxKey int

const requestIDKey ctxKey = iota

// RequestIDFrom returns the id assigned by the logging middleware, or "" if
// the request did not pass through it.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware assigns a request id, logs the request and its outcome
// and records Prometheus request metrics per route template.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := logger.RequestID(r)
			w.Header().Set(logger.RequestIDHeader, reqID)

			reqLog := log.WithRequest(r, reqID)
			reqLog.Debug("request started")

			wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r.WithContext(context.WithValue(r.Context(), requestIDKey, reqID)))

			duration := time.Since(start)
			route := routeTemplate(r)
			telemetry.Observe(telemetry.RequestLatency,
				prometheus.Labels{"route": route, "method": r.Method}, duration.Seconds())
			telemetry.Inc(telemetry.RequestTotal,
				prometheus.Labels{"route": route, "method": r.Method, "status": strconv.Itoa(wrapper.statusCode)})

			reqLog.WithField("status", wrapper.statusCode).
				WithField("duration_ms", duration.Milliseconds()).
				Info("request completed")
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
