package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aurorad/internal/metrics"
)

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware instruments requests against the injected registry.
func metricsMiddleware(mtx *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := routePatternOrPath(r)
			method := r.Method
			mtx.HTTPInflight.WithLabelValues(path).Inc()
			defer mtx.HTTPInflight.WithLabelValues(path).Dec()

			sr := &statusRecorder{ResponseWriter: w, status: 200}
			start := time.Now()
			next.ServeHTTP(sr, r)
			statusLabel := itoa(sr.status)
			dur := time.Since(start).Seconds()
			mtx.HTTPRequestsTotal.WithLabelValues(path, method, statusLabel).Inc()
			mtx.HTTPRequestDuration.WithLabelValues(path, method, statusLabel).Observe(dur)
		})
	}
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// fast integer to ascii for small set of status codes
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
