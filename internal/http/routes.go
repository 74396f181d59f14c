// Package http arma el router y el server del servicio.
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/bookshelf/internal/books"
	"github.com/dropDatabas3/bookshelf/internal/http/middlewares"
)

// RouterDeps agrupa todo lo que el router necesita ya construido.
type RouterDeps struct {
	GraphQL  stdhttp.Handler
	Metrics  stdhttp.Handler
	Verifier middlewares.TokenVerifier
	Repo     books.Repository

	CORSAllowedOrigins []string
}

// NewRouter monta el árbol de rutas completo.
//
// Orden del stack: request-id → logging → recover → cors → metrics.
// El gate de auth aplica sólo a /graphql; health y métricas quedan abiertos.
func NewRouter(d RouterDeps) stdhttp.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewares.WithRequestID(),
		middlewares.WithLogging(),
		middlewares.WithRecover(),
		middlewares.WithCORS(d.CORSAllowedOrigins),
		middlewares.WithMetrics(),
	)

	r.Get("/healthz", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		if err := d.Repo.Ping(req.Context()); err != nil {
			w.WriteHeader(stdhttp.StatusServiceUnavailable)
			_, _ = w.Write([]byte("storage unavailable"))
			return
		}
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	r.Group(func(g chi.Router) {
		g.Use(middlewares.RequireAuth(d.Verifier))
		g.Handle("/graphql", d.GraphQL)
	})

	return r
}
