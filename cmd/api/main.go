package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/notehq/notehub/internal/auth"
	"github.com/notehq/notehub/internal/config"
	httpx "github.com/notehq/notehub/internal/http"
	"github.com/notehq/notehub/internal/kv"
	"github.com/notehq/notehub/internal/kv/memstore"
	"github.com/notehq/notehub/internal/kv/pgstore"
	"github.com/notehq/notehub/internal/kv/redisstore"
	"github.com/notehq/notehub/internal/observability"
	"github.com/notehq/notehub/internal/repo/kvrepo"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing is opt-in; without a collector it just adds noise
	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(context.Background(), "notehub", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	store, ping, closeStore, err := openStore(cfg)

	if err != nil {
		log.Error("store init failed", "backend", cfg.Backend, "err", err)
		os.Exit(1)
	}

	defer closeStore()

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	// every kv op goes through the metrics decorator
	store = observability.NewInstrumentedStore(store, prom)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTTL)
	provider := auth.NewService(kvrepo.NewIdentitiesRepo(store), tokens, uuid.NewString)

	router := httpx.NewRouter(httpx.Deps{
		Log:      log,
		Cfg:      cfg,
		Store:    store,
		Provider: provider,
		Ping:     ping,
		Prom:     prom,
		Registry: registry,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "backend", cfg.Backend)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

// openStore builds the configured backend and returns the store, a readiness
// pinger and a close func.
func openStore(cfg config.Config) (kv.Store, func() error, func(), error) {
	switch cfg.Backend {
	case "redis":
		s := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ping := func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return s.Ping(ctx)
		}

		return s, ping, func() { _ = s.Close() }, nil

	case "postgres":
		pool, err := pgstore.NewPool(cfg.DBURL)

		if err != nil {
			return nil, nil, nil, err
		}

		s := pgstore.New(pool)

		ctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()

		if err := s.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, nil, nil, err
		}

		ping := func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return s.Ping(ctx)
		}

		return s, ping, s.Close, nil

	case "memory":
		return memstore.New(), nil, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
