package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/api_access_gate/internal/model"
)

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.Plan)) *model.Plan {
	t.Helper()

	plan := &model.Plan{
		ID:                 uuid.Must(uuid.NewV7()).String(),
		Name:               fmt.Sprintf("plan_%d", time.Now().UnixNano()),
		Description:        "test plan",
		PermittedEndpoints: []string{"read"},
		Quota:              3,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithPlanName 设置套餐名
func WithPlanName(name string) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Name = name
	}
}

// WithEndpoints 设置允许的接口
func WithEndpoints(endpoints ...string) func(*model.Plan) {
	return func(p *model.Plan) {
		p.PermittedEndpoints = model.NormalizeEndpoints(endpoints)
	}
}

// WithQuota 设置调用配额
func WithQuota(quota int64) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Quota = quota
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID, planID string, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		UserID:     userID,
		PlanID:     planID,
		AssignedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithUsage 设置已使用次数
func WithUsage(used int64) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.UsageCount = used
	}
}

// TestEndpoint 创建测试接口目录项
func TestEndpoint(t *testing.T, db *gorm.DB, identifier string) *model.Endpoint {
	t.Helper()

	endpoint := &model.Endpoint{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Name:       identifier,
		Identifier: identifier,
	}

	if err := db.Create(endpoint).Error; err != nil {
		t.Fatalf("Failed to create test endpoint: %v", err)
	}

	return endpoint
}
