package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tenant-user-sync/internal/api/dto"
	"github.com/kingrain94/tenant-user-sync/internal/domain"
)

type UserService interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

type UserHandler struct {
	*BaseHandler
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.service.Create(h.RequestCtx(c), req.ToUser())
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromUser(user))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetByID(h.RequestCtx(c), c.Param("id"))
	if err != nil {
		h.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUser(user))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.service.Update(h.RequestCtx(c), c.Param("id"), req.ToUser()); err != nil {
		h.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.service.Delete(h.RequestCtx(c), c.Param("id")); err != nil {
		h.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
