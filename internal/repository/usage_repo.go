package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/api_access_gate/internal/model"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Record 累加一次调用，allowed 决定计入放行还是拒绝
func (r *UsageRepository) Record(ctx context.Context, userID, endpoint string, allowed bool, at time.Time) error {
	var allowedInc, deniedInc int64
	if allowed {
		allowedInc = 1
	} else {
		deniedInc = 1
	}

	row := &model.EndpointUsage{
		UserID:       userID,
		Endpoint:     endpoint,
		AllowedCalls: allowedInc,
		DeniedCalls:  deniedInc,
		LastAccessAt: at,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "endpoint"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"allowed_calls":  gorm.Expr("allowed_calls + ?", allowedInc),
			"denied_calls":   gorm.Expr("denied_calls + ?", deniedInc),
			"last_access_at": at,
			"updated_at":     time.Now(),
		}),
	}).Create(row).Error
}

func (r *UsageRepository) ListByUserID(ctx context.Context, userID string) ([]*model.EndpointUsage, error) {
	var rows []*model.EndpointUsage
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("endpoint ASC").Find(&rows).Error
	return rows, err
}

// CountStaleBefore 统计 last_access_at 早于 cutoff 的行数
func (r *UsageRepository) CountStaleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EndpointUsage{}).Where("last_access_at < ?", cutoff).Count(&count).Error
	return count, err
}

// DeleteStaleBefore 删除 last_access_at 早于 cutoff 的行
func (r *UsageRepository) DeleteStaleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("last_access_at < ?", cutoff).Delete(&model.EndpointUsage{})
	return result.RowsAffected, result.Error
}
