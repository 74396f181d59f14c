package middlewares

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/bookshelf/internal/metrics"
)

// WithMetrics registra counters/histogramas Prometheus por request.
// Los paths de este servicio son estáticos (no hay ids en la URL),
// así que usar r.URL.Path como label no explota la cardinalidad.
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			done := metrics.TrackInflight(r.Method, r.URL.Path)
			defer done()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			metrics.ObserveRequest(r.Method, r.URL.Path, rec.status, time.Since(start))
		})
	}
}
