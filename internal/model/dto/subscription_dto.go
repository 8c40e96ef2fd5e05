package dto

// AssignSubscriptionRequest 分配订阅请求
type AssignSubscriptionRequest struct {
	UserID string `json:"user_id" binding:"required,max=100"`
	PlanID string `json:"plan_id" binding:"required"`
}

// SubscriptionInfo 订阅信息
type SubscriptionInfo struct {
	UserID     string `json:"user_id"`
	PlanID     string `json:"plan_id"`
	UsageCount int64  `json:"usage_count"`
	AssignedAt string `json:"assigned_at"`
}

// SubscriptionDetail 订阅详情（含套餐视图）
type SubscriptionDetail struct {
	UserID     string    `json:"user_id"`
	Plan       *PlanInfo `json:"plan"`
	UsageCount int64     `json:"usage_count"`
	Remaining  int64     `json:"remaining"`
	AssignedAt string    `json:"assigned_at"`
}

// EndpointUsageInfo 单个接口调用统计
type EndpointUsageInfo struct {
	Endpoint     string `json:"endpoint"`
	AllowedCalls int64  `json:"allowed_calls"`
	DeniedCalls  int64  `json:"denied_calls"`
	LastAccessAt string `json:"last_access_at,omitempty"`
}

// UsageResponse 用户调用明细
type UsageResponse struct {
	UserID    string               `json:"user_id"`
	Endpoints []*EndpointUsageInfo `json:"endpoints"`
}
