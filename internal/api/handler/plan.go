package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/api_access_gate/internal/model/dto"
	"github.com/qs3c/api_access_gate/internal/pkg/response"
	"github.com/qs3c/api_access_gate/internal/service"
)

type PlanHandler struct {
	planService         *service.PlanService
	subscriptionService *service.SubscriptionService
}

func NewPlanHandler(planService *service.PlanService, subscriptionService *service.SubscriptionService) *PlanHandler {
	return &PlanHandler{
		planService:         planService,
		subscriptionService: subscriptionService,
	}
}

// Create 创建套餐
// POST /api/v1/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), req.Name, req.Description, req.PermittedEndpoints, *req.Quota)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "创建成功", plan)
}

// List 获取套餐列表
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.planService.ListPlans(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessList(c, len(plans), plans)
}

// Get 获取套餐
// GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.planService.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, plan)
}

// Update 部分更新套餐，未提交的字段保持不变
// PUT /api/v1/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), c.Param("id"), service.PlanPatch{
		Name:               req.Name,
		Description:        req.Description,
		PermittedEndpoints: req.PermittedEndpoints,
		Quota:              req.Quota,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "更新成功", plan)
}

// Delete 删除套餐
// DELETE /api/v1/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.planService.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ListSubscriptions 列出套餐下的订阅
// GET /api/v1/plans/:id/subscriptions
func (h *PlanHandler) ListSubscriptions(c *gin.Context) {
	subs, err := h.subscriptionService.ListSubscriptionsByPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessList(c, len(subs), subs)
}
