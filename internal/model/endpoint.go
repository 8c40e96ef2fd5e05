package model

import (
	"time"
)

// Endpoint 可售卖的 API 接口目录项
type Endpoint struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Identifier  string    `gorm:"column:endpoint;size:200;uniqueIndex;not null" json:"endpoint"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Endpoint) TableName() string {
	return "endpoints"
}
