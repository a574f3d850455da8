package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/tenant-user-sync/internal/api/dto"
	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/internal/utils"
)

type BaseHandler struct{}

func (h *BaseHandler) RequestCtx(ginCtx *gin.Context) context.Context {
	ctx := ginCtx.Request.Context()
	for k, v := range ginCtx.Keys {
		// Convert string keys to proper context key types to avoid collisions
		contextKey := utils.ContextKey(k)
		ctx = context.WithValue(ctx, contextKey, v)
	}
	return ctx
}

// BindError answers a request whose body failed to bind or validate.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
}

// WriteError answers with the status of the error's kind. A conflicting id is
// a bad request to the caller.
func (h *BaseHandler) WriteError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch service.Classify(err) {
	case service.KindConflict, service.KindBadRequest:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	default:
		_ = c.Error(err)
	}

	c.JSON(status, dto.Error{Error: err.Error()})
}
