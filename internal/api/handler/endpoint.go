package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/api_access_gate/internal/model/dto"
	"github.com/qs3c/api_access_gate/internal/pkg/response"
	"github.com/qs3c/api_access_gate/internal/service"
)

type EndpointHandler struct {
	endpointService *service.EndpointService
}

func NewEndpointHandler(endpointService *service.EndpointService) *EndpointHandler {
	return &EndpointHandler{endpointService: endpointService}
}

// Create 登记接口
// POST /api/v1/endpoints
func (h *EndpointHandler) Create(c *gin.Context) {
	var req dto.CreateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	endpoint, err := h.endpointService.AddEndpoint(c.Request.Context(), req.Name, req.Endpoint, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "登记成功", endpoint)
}

// List 接口目录
// GET /api/v1/endpoints
func (h *EndpointHandler) List(c *gin.Context) {
	endpoints, err := h.endpointService.ListEndpoints(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessList(c, len(endpoints), endpoints)
}

// Delete 删除接口
// DELETE /api/v1/endpoints/:id
func (h *EndpointHandler) Delete(c *gin.Context) {
	if err := h.endpointService.DeleteEndpoint(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
