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
	"github.com/kingrain94/tenant-user-sync/internal/metrics"
	"github.com/kingrain94/tenant-user-sync/internal/middleware"
	"github.com/kingrain94/tenant-user-sync/internal/repository/records"
	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))
	defer appLogger.Sync()

	cfg, err := config.Load(config.TenantServiceName, 8080)
	if err != nil {
		appLogger.Fatal("Failed to load config", err)
	}

	ctx := context.Background()
	backends, err := app.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open backends", err)
	}
	defer backends.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	repo := records.NewTenantServiceRepository(backends.Store, cfg.ServiceName)
	tenantService := service.NewTenantService(repo, backends.Publisher(), appLogger, recorder)

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
	server.SetupTenantRoutes(router, api.NewTenantHandler(tenantService))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Tenant service listening on %s", srv.Addr)
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

	appLogger.Info("Server exiting")
}
