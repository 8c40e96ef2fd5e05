package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/api_access_gate/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *SubscriptionRepository) WithTx(tx *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert 按 user_id 新建或覆盖订阅，覆盖时计数归零
func (r *SubscriptionRepository) Upsert(ctx context.Context, userID, planID string, assignedAt time.Time) error {
	sub := &model.Subscription{
		UserID:     userID,
		PlanID:     planID,
		UsageCount: 0,
		AssignedAt: assignedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"plan_id":     planID,
			"usage_count": 0,
			"assigned_at": assignedAt,
			"updated_at":  assignedAt,
		}),
	}).Create(sub).Error
}

// DeleteByUserID 返回实际删除的行数
func (r *SubscriptionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Subscription{})
	return result.RowsAffected, result.Error
}

func (r *SubscriptionRepository) CountByPlanID(ctx context.Context, planID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("plan_id = ?", planID).Count(&count).Error
	return count, err
}

func (r *SubscriptionRepository) ListByPlanID(ctx context.Context, planID string) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.WithContext(ctx).Where("plan_id = ?", planID).Order("id ASC").Find(&subs).Error
	return subs, err
}

// IncrementUsageIfBelow 条件自增：仅当仍绑定 planID 且 usage_count < quota 时 +1
// 单条 UPDATE 由存储层保证原子性，返回是否自增成功
func (r *SubscriptionRepository) IncrementUsageIfBelow(ctx context.Context, userID, planID string, quota int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND plan_id = ? AND usage_count < ?", userID, planID, quota).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
