package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/metrics"
)

// responseWriter captures the status code a handler writes. Handlers that
// never call WriteHeader implicitly answer 200.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records request count and latency labelled by the
// registered route pattern, not the raw URL, so label cardinality stays
// bounded.
func MetricsMiddleware(pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)
		metrics.HTTPRequests.WithLabelValues(pattern, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	}
}
