package model

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

type Plan struct {
	ID                 string                      `gorm:"primaryKey;size:36" json:"id"`
	Name               string                      `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description        string                      `gorm:"type:text" json:"description"`
	PermittedEndpoints datatypes.JSONSlice[string] `gorm:"not null" json:"permitted_endpoints"`
	Quota              int64                       `gorm:"not null;default:0" json:"quota"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

// Permits 判断套餐是否包含该接口
func (p *Plan) Permits(endpoint string) bool {
	return slices.Contains(p.PermittedEndpoints, endpoint)
}

// NormalizeEndpoints 去重、去空并排序，保证集合语义
func NormalizeEndpoints(endpoints []string) []string {
	out := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		if e == "" {
			continue
		}
		out = append(out, e)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
