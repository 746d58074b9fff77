package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/todo-server/internal/apierrors"
)

func (h *Auth) handleError(c *gin.Context, err error) {
	if apiErr, ok := apierrors.As(err); ok && apiErr.HTTPStatus < 500 {
		h.logger.Info("Auth handler: request rejected",
			"path", c.Request.URL.Path,
			"code", apiErr.Code)
	}
	h.errorWriter.Abort(c, err)
}
