package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kingrain94/tenant-user-sync/internal/api"
	"github.com/kingrain94/tenant-user-sync/internal/app"
	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/metrics"
	"github.com/kingrain94/tenant-user-sync/internal/middleware"
	"github.com/kingrain94/tenant-user-sync/internal/repository/records"
	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/internal/service/archive"
	"github.com/kingrain94/tenant-user-sync/internal/worker"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))
	defer appLogger.Sync()

	cfg, err := config.Load(config.UserServiceName, 8081)
	if err != nil {
		appLogger.Fatal("Failed to load config", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	backends, err := app.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open backends", err)
	}
	defer backends.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	reporters := service.CascadeReporters{service.NewLogCascadeReporter(appLogger)}
	if s3Config := config.DefaultS3Config(); s3Config.Enabled() {
		s3Client, err := s3Config.GetClient(ctx)
		if err != nil {
			appLogger.Fatal("Failed to create S3 client", err)
		}
		reporters = append(reporters, archive.NewS3CascadeReporter(s3Client, s3Config, appLogger))
		appLogger.Infof("Archiving cascade reports to s3://%s/%s", s3Config.BucketName, s3Config.Prefix)
	}

	repo := records.NewUserServiceRepository(backends.Store, cfg.ServiceName)
	userService := service.NewUserService(repo, appLogger)
	projection := service.NewTenantProjection(repo, reporters, appLogger, recorder, cfg.CascadeConcurrency)

	// Pull deliveries from the configured bus. Push deliveries arrive on the
	// /events routes below.
	var eventWorker *worker.EventWorker
	switch {
	case backends.Streams != nil:
		for _, topic := range []string{domain.TopicTenantCreated, domain.TopicTenantDeleted} {
			if err := backends.Streams.Subscribe(ctx, topic, projection); err != nil {
				appLogger.Fatal("Failed to subscribe", err)
			}
		}
	case backends.SQS != nil:
		eventWorker = worker.NewEventWorker(backends.SQS, projection, appLogger, cfg.WorkerCount, cfg.PollInterval)
		eventWorker.Start(ctx)
	}

	server := api.NewServer(
		cfg,
		middleware.NewAuthMiddleware(cfg),
		middleware.NewRateLimitMiddleware(backends.Redis, cfg, appLogger),
		middleware.NewValidationMiddleware(appLogger),
		appLogger,
		registry,
	)

	router, err := server.Router()
	if err != nil {
		appLogger.Fatal("Failed to build router", err)
	}
	server.SetupUserRoutes(router, api.NewUserHandler(userService), api.NewEventHandler(projection, appLogger))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		appLogger.Infof("User service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}

	if eventWorker != nil {
		eventWorker.Stop()
	}
	// Stream subscriptions finish their current XREADGROUP (at most
	// REDIS_STREAM_BLOCK) before the deferred backends.Close returns.
	stop()

	appLogger.Info("Server exiting")
}
