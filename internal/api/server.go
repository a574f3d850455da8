package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kingrain94/tenant-user-sync/internal/api/dto"
	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/metrics"
	"github.com/kingrain94/tenant-user-sync/internal/middleware"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

const maxRequestSize = 1 << 20

type Server struct {
	config     *config.Config
	auth       *middleware.AuthMiddleware
	rateLimit  *middleware.RateLimitMiddleware
	validation *middleware.ValidationMiddleware
	logger     *logger.Logger
	gatherer   prometheus.Gatherer
}

func NewServer(
	cfg *config.Config,
	auth *middleware.AuthMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
	validation *middleware.ValidationMiddleware,
	logger *logger.Logger,
	gatherer prometheus.Gatherer,
) *Server {
	return &Server{
		config:     cfg,
		auth:       auth,
		rateLimit:  rateLimit,
		validation: validation,
		logger:     logger,
		gatherer:   gatherer,
	}
}

// Router returns an engine serving /health and /metrics. Resource routes are
// added by SetupTenantRoutes or SetupUserRoutes.
func (s *Server) Router() (*gin.Engine, error) {
	if err := dto.RegisterValidations(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(s.logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:  "ok",
			Service: s.config.ServiceName,
			Time:    time.Now().UTC(),
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(s.gatherer)))

	return router, nil
}

func (s *Server) secured(router gin.IRouter, path string) *gin.RouterGroup {
	group := router.Group(path)
	group.Use(s.validation.ValidateRequestSize(maxRequestSize))
	group.Use(s.validation.ValidateContentType("application/json"))
	group.Use(s.rateLimit.GlobalRateLimit())
	return group
}

func (s *Server) SetupTenantRoutes(router gin.IRouter, tenants *TenantHandler) {
	group := s.secured(router, "/tenant")
	group.Use(middleware.Timeout(s.config.RequestTimeout))
	{
		group.POST("", tenants.CreateTenant)
		group.GET("/:id", tenants.GetTenant)
		group.PUT("/:id", tenants.UpdateTenant)
		group.DELETE("/:id", tenants.DeleteTenant)
	}
}

func (s *Server) SetupUserRoutes(router gin.IRouter, users *UserHandler, events *EventHandler) {
	group := s.secured(router, "/user")
	group.Use(middleware.Timeout(s.config.RequestTimeout))
	{
		group.POST("", users.CreateUser)
		group.GET("/:id", users.GetUser)
		group.PUT("/:id", users.UpdateUser)
		group.DELETE("/:id", users.DeleteUser)
	}

	// Event routes are not bounded by REQUEST_TIMEOUT.
	eventGroup := s.secured(router, "/events")
	if s.auth.Enabled() {
		eventGroup.Use(s.auth.JWTAuth(), s.auth.RequireRole(domain.RoleEventPublisher, domain.RoleAdmin))
	} else {
		s.logger.Warn("EVENT_AUTH_SECRET is not set, event delivery endpoints are unauthenticated")
	}
	{
		eventGroup.POST("/"+domain.TopicTenantCreated, events.TenantCreated)
		eventGroup.POST("/"+domain.TopicTenantDeleted, events.TenantDeleted)
	}
}
