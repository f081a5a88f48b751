package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dataobs/lens/pkg/api"
	"github.com/dataobs/lens/pkg/config"
	"github.com/dataobs/lens/pkg/httputil"
	"github.com/dataobs/lens/pkg/metrics"
	"github.com/dataobs/lens/pkg/observability"
	"github.com/dataobs/lens/pkg/storage/backends"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info("Starting lens metrics engine")

	ctx := context.Background()

	tracerProvider, err := observability.InitTracing(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		os.Exit(1)
	}

	// Connect the four backends. All four must be reachable at startup;
	// degradation is handled per request after that.
	mongoStore, err := backends.NewMongoStore(cfg.Storage)
	if err != nil {
		logger.WithBackend(metrics.BackendMongo).WithError(err).Error("Failed to connect")
		os.Exit(1)
	}

	elasticIndex, err := backends.NewElasticIndex(cfg.Storage)
	if err != nil {
		logger.WithBackend(metrics.BackendElastic).WithError(err).Error("Failed to connect")
		os.Exit(1)
	}

	db, err := backends.OpenTimescale(cfg.Storage)
	if err != nil {
		logger.WithBackend(metrics.BackendTimescale).WithError(err).Error("Failed to connect")
		os.Exit(1)
	}

	redisCounters, err := backends.NewRedisCounters(cfg.Storage)
	if err != nil {
		logger.WithBackend(metrics.BackendRedis).WithError(err).Error("Failed to connect")
		os.Exit(1)
	}

	logger.Info("All four backends connected")

	var obsMetrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		obsMetrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	service := metrics.NewService(metrics.ServiceDeps{
		Creation:     metrics.NewCreationMetrics(mongoStore),
		Access:       metrics.NewAccessMetrics(elasticIndex, cfg.Storage.AccessIndex),
		Movement:     metrics.NewMovementMetrics(db),
		Usage:        metrics.NewUsageMetrics(redisCounters, elasticIndex, cfg.Storage.AccessIndex, logger),
		Logger:       logger,
		Metrics:      obsMetrics,
		QueryTimeout: cfg.Server.QueryTimeout,
	})
	recorder := metrics.NewRecorder(mongoStore, elasticIndex, redisCounters, db, cfg.Storage.AccessIndex)

	// API router
	router := mux.NewRouter()
	handlers := api.NewMetricsHandlers(service, recorder, logger)
	handlers.RegisterRoutes(router)

	middleware := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.RecoveryMiddleware(logger),
		httputil.LoggingMiddleware(logger),
		httputil.ContentTypeMiddleware,
		httputil.MaxBytesMiddleware(1<<20),
	)
	var apiHandler http.Handler = middleware(router)
	if obsMetrics != nil {
		apiHandler = obsMetrics.Middleware(apiHandler)
	}

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      apiHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics on a separate port for probes
	healthChecker := observability.NewHealthChecker(db)
	healthChecker.AddBackend(metrics.BackendMongo, mongoStore)
	healthChecker.AddBackend(metrics.BackendElastic, elasticIndex)
	healthChecker.AddBackend(metrics.BackendRedis, redisCounters)

	healthRouter := mux.NewRouter()
	healthRouter.HandleFunc("/healthz", healthChecker.Liveness).Methods("GET")
	healthRouter.HandleFunc("/readyz", healthChecker.Readiness).Methods("GET")
	if obsMetrics != nil {
		healthRouter.Handle("/metrics", obsMetrics.Handler()).Methods("GET")
	}

	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthRouter,
	}

	go func() {
		logger.Infof("Health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	go func() {
		logger.Infof("API server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("API server failed")
			os.Exit(1)
		}
	}()

	shutdown := observability.NewShutdownManager(logger, server, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return mongoStore.Close(ctx)
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return db.Close()
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return redisCounters.Close()
	})
	if tracerProvider != nil {
		shutdown.RegisterShutdownFunc(tracerProvider.Shutdown)
	}

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}
