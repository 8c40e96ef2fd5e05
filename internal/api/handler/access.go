package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/api_access_gate/internal/model/dto"
	"github.com/qs3c/api_access_gate/internal/pkg/response"
	"github.com/qs3c/api_access_gate/internal/service"
)

type AccessHandler struct {
	gate    *service.AccessGate
	emitter *service.DecisionEmitter
}

func NewAccessHandler(gate *service.AccessGate, emitter *service.DecisionEmitter) *AccessHandler {
	return &AccessHandler{
		gate:    gate,
		emitter: emitter,
	}
}

// Check 判定并计量一次调用
// GET /api/v1/access/:user_id/*endpoint
func (h *AccessHandler) Check(c *gin.Context) {
	userID := c.Param("user_id")
	endpoint := strings.TrimPrefix(c.Param("endpoint"), "/")
	if userID == "" || endpoint == "" {
		response.ParamError(c, "缺少用户或接口标识")
		return
	}

	decision, err := h.gate.CheckAndConsume(c.Request.Context(), userID, endpoint)
	if err != nil {
		writeError(c, err)
		return
	}

	// 客户端断开不应丢失事件
	h.emitter.Emit(context.WithoutCancel(c.Request.Context()), decision)

	data := &dto.AccessDecision{
		UserID:     decision.UserID,
		Endpoint:   decision.Endpoint,
		Allowed:    decision.Allowed,
		Reason:     string(decision.Reason),
		UsageCount: decision.UsageCount,
		Quota:      decision.Quota,
		Remaining:  decision.Remaining(),
	}

	switch decision.Reason {
	case service.ReasonEndpointNotPermitted:
		response.ErrorWithData(c, response.CodePermissionDenied, "当前套餐不包含该接口", data)
	case service.ReasonQuotaExceeded:
		response.ErrorWithData(c, response.CodeQuotaExceeded, "调用次数已用完", data)
	default:
		response.Success(c, data)
	}
}
