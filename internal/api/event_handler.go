package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kingrain94/tenant-user-sync/internal/api/dto"
	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/internal/utils"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

// anonymousPublisher names the caller when event routes run without auth.
const anonymousPublisher = "anonymous"

// TenantProjection handles tenant lifecycle events pushed by the bus.
type TenantProjection interface {
	HandleTenantCreated(ctx context.Context, event domain.TenantCreated) error
	HandleTenantDeleted(ctx context.Context, event domain.TenantDeleted) (*service.CascadeReport, error)
}

// EventHandler serves the push delivery endpoints. A 200 acknowledges the
// event; a 400 tells the bus the payload will never be accepted and any other
// status asks for redelivery.
type EventHandler struct {
	*BaseHandler
	projection TenantProjection
	logger     *logger.Logger
}

func NewEventHandler(projection TenantProjection, logger *logger.Logger) *EventHandler {
	return &EventHandler{
		projection: projection,
		logger:     logger,
	}
}

// publisher returns the token subject of the caller pushing the event.
func publisher(ctx context.Context) string {
	subject, err := utils.GetSubjectFromContext(ctx)
	if err != nil {
		return anonymousPublisher
	}
	return subject
}

func (h *EventHandler) logDelivery(ctx context.Context, topic, tenantID string) {
	h.logger.Info("Event delivered",
		zap.String("topic", topic),
		zap.String("tenant_id", tenantID),
		zap.String("publisher", publisher(ctx)))
}

// TenantCreated handles POST /events/TenantCreated.
func (h *EventHandler) TenantCreated(c *gin.Context) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ctx := h.RequestCtx(c)
	h.logDelivery(ctx, domain.TopicTenantCreated, req.ID)

	if err := h.projection.HandleTenantCreated(ctx, domain.TenantCreated{ID: req.ID}); err != nil {
		h.WriteError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// TenantDeleted handles POST /events/TenantDeleted. The response lists the
// users removed; users that could not be removed do not fail the delivery.
func (h *EventHandler) TenantDeleted(c *gin.Context) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ctx := h.RequestCtx(c)
	h.logDelivery(ctx, domain.TopicTenantDeleted, req.ID)

	report, err := h.projection.HandleTenantDeleted(ctx, domain.TenantDeleted{ID: req.ID})
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCascadeReport(report))
}
