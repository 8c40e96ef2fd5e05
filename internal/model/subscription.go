package model

import (
	"time"
)

// Subscription 用户与套餐的一对一绑定，UsageCount 为当前周期已放行次数
type Subscription struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"size:100;uniqueIndex;not null" json:"user_id"`
	PlanID     string    `gorm:"size:36;not null;index" json:"plan_id"`
	Plan       *Plan     `gorm:"foreignKey:PlanID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	UsageCount int64     `gorm:"not null;default:0" json:"usage_count"`
	AssignedAt time.Time `gorm:"not null" json:"assigned_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
