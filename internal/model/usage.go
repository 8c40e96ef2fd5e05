package model

import (
	"time"
)

// EndpointUsage 按用户、按接口累计的调用明细（由 worker 异步写入）
type EndpointUsage struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"size:100;not null;uniqueIndex:idx_usage_user_endpoint" json:"user_id"`
	Endpoint     string    `gorm:"size:200;not null;uniqueIndex:idx_usage_user_endpoint" json:"endpoint"`
	AllowedCalls int64     `gorm:"not null;default:0" json:"allowed_calls"`
	DeniedCalls  int64     `gorm:"not null;default:0" json:"denied_calls"`
	LastAccessAt time.Time `json:"last_access_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (EndpointUsage) TableName() string {
	return "endpoint_usages"
}
