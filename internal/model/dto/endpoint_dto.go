package dto

// CreateEndpointRequest 登记接口请求
type CreateEndpointRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Endpoint    string `json:"endpoint" binding:"required,max=200"`
	Description string `json:"description"`
}

// EndpointInfo 接口目录项
type EndpointInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Endpoint    string `json:"endpoint"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}
