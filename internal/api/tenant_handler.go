package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tenant-user-sync/internal/api/dto"
	"github.com/kingrain94/tenant-user-sync/internal/domain"
)

type TenantService interface {
	Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	Update(ctx context.Context, id string, tenant *domain.Tenant) error
	Delete(ctx context.Context, id string) error
}

type TenantHandler struct {
	*BaseHandler
	service TenantService
}

func NewTenantHandler(service TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

// CreateTenant handles POST /tenant.
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req dto.TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tenant, err := h.service.Create(h.RequestCtx(c), req.ToTenant())
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromTenant(tenant))
}

// GetTenant handles GET /tenant/:id.
func (h *TenantHandler) GetTenant(c *gin.Context) {
	tenant, err := h.service.GetByID(h.RequestCtx(c), c.Param("id"))
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTenant(tenant))
}

// UpdateTenant handles PUT /tenant/:id.
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	var req dto.TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.service.Update(h.RequestCtx(c), c.Param("id"), req.ToTenant()); err != nil {
		h.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteTenant handles DELETE /tenant/:id.
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	if err := h.service.Delete(h.RequestCtx(c), c.Param("id")); err != nil {
		h.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
