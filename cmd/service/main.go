// Comando service: API GraphQL de la biblioteca personal.
//
// Arranca el stack completo: config (YAML + ENV), logger, storage,
// cache, verificación JWKS y el server HTTP con shutdown limpio.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/bookshelf/internal/auth"
	"github.com/dropDatabas3/bookshelf/internal/books"
	"github.com/dropDatabas3/bookshelf/internal/cache"
	"github.com/dropDatabas3/bookshelf/internal/config"
	httpserver "github.com/dropDatabas3/bookshelf/internal/http"
	"github.com/dropDatabas3/bookshelf/internal/http/graphql"
	"github.com/dropDatabas3/bookshelf/internal/metrics"
	"github.com/dropDatabas3/bookshelf/internal/observability/logger"
	"github.com/dropDatabas3/bookshelf/internal/rate"
	"github.com/dropDatabas3/bookshelf/internal/store"
)

func main() {
	// .env es opcional; en docker las vars ya vienen puestas
	_ = godotenv.Load()

	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "ruta al YAML de configuración (opcional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "bookshelf",
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	repo, cleanup, err := store.New(ctx, cfg)
	if err != nil {
		lg.Fatal("storage init failed", logger.Err(err))
	}
	defer cleanup()

	// Cache para claves JWKS (memory o redis)
	cacheClient, err := cache.New(cache.Config{
		Driver:     cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: config.Duration(cfg.Cache.Memory.DefaultTTL, 10*time.Minute),
	})
	if err != nil {
		lg.Fatal("cache init failed", logger.Err(err))
	}
	defer func() { _ = cacheClient.Close() }()

	// Verifier: JWKS remoto con cache + rate limit de fetches
	limiter := rate.NewMemoryLimiter(cfg.Auth.JWKS.RequestsPerMinute, time.Minute)
	keys := auth.NewKeySource(
		cfg.Auth.JWKS.URL,
		config.Duration(cfg.Auth.JWKS.RefreshTTL, 10*time.Minute),
		cacheClient,
		limiter,
	)
	verifier := auth.NewVerifier(keys, cfg.Auth.Issuer, cfg.Auth.Audience)

	// Dominio + transporte
	svc := books.NewService(repo)
	schema, err := graphql.NewSchema(svc)
	if err != nil {
		lg.Fatal("schema build failed", logger.Err(err))
	}

	metricsHandler, err := metrics.Register(prometheus.DefaultRegisterer)
	if err != nil {
		lg.Warn("metrics registration failed", logger.Err(err))
	}

	router := httpserver.NewRouter(httpserver.RouterDeps{
		GraphQL:            graphql.NewHandler(schema),
		Metrics:            metricsHandler,
		Verifier:           verifier,
		Repo:               repo,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := httpserver.NewServer(
		cfg.Server.Addr,
		router,
		config.Duration(cfg.Server.ReadTimeout, 10*time.Second),
		config.Duration(cfg.Server.WriteTimeout, 30*time.Second),
	)

	go func() {
		lg.Info("server listening",
			logger.Any("addr", cfg.Server.Addr),
			logger.Any("storage", cfg.Storage.Driver),
			logger.Issuer(cfg.Auth.Issuer),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server stopped", logger.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")
	if err := httpserver.Shutdown(srv, 15*time.Second); err != nil {
		lg.Error("shutdown failed", logger.Err(err))
	}
}
