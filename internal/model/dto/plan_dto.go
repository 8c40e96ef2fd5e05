package dto

// CreatePlanRequest 创建套餐请求
type CreatePlanRequest struct {
	Name               string   `json:"name" binding:"required,max=100"`
	Description        string   `json:"description"`
	PermittedEndpoints []string `json:"permitted_endpoints"`
	Quota              *int64   `json:"quota" binding:"required,min=0"`
}

// UpdatePlanRequest 更新套餐请求，nil 表示未提交该字段
type UpdatePlanRequest struct {
	Name               *string   `json:"name" binding:"omitempty,min=1,max=100"`
	Description        *string   `json:"description"`
	PermittedEndpoints *[]string `json:"permitted_endpoints"`
	Quota              *int64    `json:"quota" binding:"omitempty,min=0"`
}

// PlanInfo 套餐信息
type PlanInfo struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	PermittedEndpoints []string `json:"permitted_endpoints"`
	Quota              int64    `json:"quota"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}
