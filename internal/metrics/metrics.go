// Package metrics registra las métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	// Auth metrics
	tokenVerificationsTotal *prometheus.CounterVec
	jwksFetchesTotal        *prometheus.CounterVec

	// GraphQL metrics
	graphqlOperationsTotal *prometheus.CounterVec
)

// Register inicializa las métricas y devuelve el handler para /metrics.
// Idempotente: llamadas siguientes reusan el primer registro.
func Register(registry prometheus.Registerer) (http.Handler, error) {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		tokenVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_verifications_total",
			Help: "Verificaciones de bearer tokens por resultado",
		}, []string{"result"}) // result: ok|rejected

		jwksFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jwks_fetches_total",
			Help: "Fetches al JWKS remoto por resultado",
		}, []string{"result"}) // result: ok|error|rate_limited

		graphqlOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphql_operations_total",
			Help: "Operaciones GraphQL ejecutadas por resultado",
		}, []string{"operation", "result"}) // result: ok|error

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			tokenVerificationsTotal, jwksFetchesTotal, graphqlOperationsTotal,
		} {
			if err := registerCollector(registry, c); err != nil {
				metricsErr = err
				return
			}
		}
	})

	if metricsErr != nil {
		return nil, metricsErr
	}
	return promhttp.Handler(), nil
}

// registerCollector tolera AlreadyRegisteredError (tests re-registrando).
func registerCollector(registry prometheus.Registerer, c prometheus.Collector) error {
	if err := registry.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// ObserveRequest registra un request HTTP terminado.
func ObserveRequest(method, path string, status int, dur time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(dur.Seconds())
}

// TrackInflight marca el inicio de un request y retorna el done.
func TrackInflight(method, path string) func() {
	if httpInflight == nil {
		return func() {}
	}
	g := httpInflight.WithLabelValues(method, path)
	g.Inc()
	return g.Dec
}

// ObserveTokenVerification registra el resultado de una verificación.
func ObserveTokenVerification(ok bool) {
	if tokenVerificationsTotal == nil {
		return
	}
	if ok {
		tokenVerificationsTotal.WithLabelValues("ok").Inc()
	} else {
		tokenVerificationsTotal.WithLabelValues("rejected").Inc()
	}
}

// ObserveJWKSFetch registra un fetch al key set remoto.
func ObserveJWKSFetch(result string) {
	if jwksFetchesTotal == nil {
		return
	}
	jwksFetchesTotal.WithLabelValues(result).Inc()
}

// ObserveGraphQLOperation registra una operación GraphQL resuelta.
func ObserveGraphQLOperation(operation string, failed bool) {
	if graphqlOperationsTotal == nil {
		return
	}
	result := "ok"
	if failed {
		result = "error"
	}
	graphqlOperationsTotal.WithLabelValues(operation, result).Inc()
}
