package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/api_access_gate/internal/pkg/response"
	"github.com/qs3c/api_access_gate/internal/service"
)

// writeError 按领域错误选择业务码，未识别的错误统一按服务器错误返回
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrSubscriptionNotFound),
		errors.Is(err, service.ErrEndpointNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrPlanNameExists),
		errors.Is(err, service.ErrEndpointExists):
		response.DuplicateError(c, err.Error())
	case errors.Is(err, service.ErrInvalidQuota):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrPlanInUse),
		errors.Is(err, service.ErrConcurrentUpdate):
		response.ConflictError(c, err.Error())
	default:
		_ = c.Error(err)
		response.ServerError(c, "")
	}
}
