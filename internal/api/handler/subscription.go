package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/api_access_gate/internal/model/dto"
	"github.com/qs3c/api_access_gate/internal/pkg/response"
	"github.com/qs3c/api_access_gate/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
	usageService        *service.UsageService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService, usageService *service.UsageService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		usageService:        usageService,
	}
}

// Assign 分配或改绑套餐，计数清零
// PUT /api/v1/subscriptions
func (h *SubscriptionHandler) Assign(c *gin.Context) {
	var req dto.AssignSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.subscriptionService.AssignSubscription(c.Request.Context(), req.UserID, req.PlanID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "分配成功", sub)
}

// Get 获取用户订阅
// GET /api/v1/subscriptions/:user_id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	detail, err := h.subscriptionService.GetSubscription(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, detail)
}

// Cancel 取消订阅
// DELETE /api/v1/subscriptions/:user_id
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	if err := h.subscriptionService.CancelSubscription(c.Request.Context(), c.Param("user_id")); err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "取消成功", nil)
}

// Usage 获取用户各接口调用明细
// GET /api/v1/subscriptions/:user_id/usage
func (h *SubscriptionHandler) Usage(c *gin.Context) {
	usage, err := h.usageService.GetUsage(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, usage)
}
