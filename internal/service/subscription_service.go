package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/api_access_gate/internal/model"
	"github.com/qs3c/api_access_gate/internal/model/dto"
	"github.com/qs3c/api_access_gate/internal/repository"
)

var ErrSubscriptionNotFound = errors.New("订阅不存在")

type SubscriptionService struct {
	db       *gorm.DB
	planRepo *repository.PlanRepository
	subRepo  *repository.SubscriptionRepository
	logger   *slog.Logger
}

func NewSubscriptionService(
	db *gorm.DB,
	planRepo *repository.PlanRepository,
	subRepo *repository.SubscriptionRepository,
	logger *slog.Logger,
) *SubscriptionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionService{
		db:       db,
		planRepo: planRepo,
		subRepo:  subRepo,
		logger:   logger.With("component", "subscription_registry"),
	}
}

// AssignSubscription 绑定或改绑套餐，无论套餐是否变化都会把计数清零
func (s *SubscriptionService) AssignSubscription(ctx context.Context, userID, planID string) (*dto.SubscriptionInfo, error) {
	var sub *model.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住套餐行，避免与删除套餐并发
		if _, err := s.planRepo.WithTx(tx).GetByIDForUpdate(ctx, planID); err != nil {
			return translateErr(err, ErrPlanNotFound, nil)
		}

		subs := s.subRepo.WithTx(tx)
		if err := subs.Upsert(ctx, userID, planID, time.Now()); err != nil {
			return storageError(err)
		}

		var err error
		sub, err = subs.GetByUserID(ctx, userID)
		return translateErr(err, ErrSubscriptionNotFound, nil)
	})
	if err != nil {
		return nil, translateErr(err, nil, nil)
	}

	s.logger.InfoContext(ctx, "subscription assigned", "user_id", userID, "plan_id", planID)
	return buildSubscriptionInfo(sub), nil
}

// GetSubscription 获取订阅及其套餐视图
func (s *SubscriptionService) GetSubscription(ctx context.Context, userID string) (*dto.SubscriptionDetail, error) {
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translateErr(err, ErrSubscriptionNotFound, nil)
	}

	plan, err := s.planRepo.GetByID(ctx, sub.PlanID)
	if err != nil {
		return nil, translateErr(err, ErrPlanNotFound, nil)
	}

	remaining := plan.Quota - sub.UsageCount
	if remaining < 0 {
		remaining = 0
	}

	return &dto.SubscriptionDetail{
		UserID:     sub.UserID,
		Plan:       buildPlanInfo(plan),
		UsageCount: sub.UsageCount,
		Remaining:  remaining,
		AssignedAt: sub.AssignedAt.Format(time.RFC3339),
	}, nil
}

// CancelSubscription 解除用户订阅
func (s *SubscriptionService) CancelSubscription(ctx context.Context, userID string) error {
	affected, err := s.subRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return storageError(err)
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	s.logger.InfoContext(ctx, "subscription cancelled", "user_id", userID)
	return nil
}

// ListSubscriptionsByPlan 列出某套餐下的订阅
func (s *SubscriptionService) ListSubscriptionsByPlan(ctx context.Context, planID string) ([]*dto.SubscriptionInfo, error) {
	if _, err := s.planRepo.GetByID(ctx, planID); err != nil {
		return nil, translateErr(err, ErrPlanNotFound, nil)
	}

	subs, err := s.subRepo.ListByPlanID(ctx, planID)
	if err != nil {
		return nil, storageError(err)
	}

	items := make([]*dto.SubscriptionInfo, 0, len(subs))
	for _, sub := range subs {
		items = append(items, buildSubscriptionInfo(sub))
	}
	return items, nil
}

func buildSubscriptionInfo(sub *model.Subscription) *dto.SubscriptionInfo {
	return &dto.SubscriptionInfo{
		UserID:     sub.UserID,
		PlanID:     sub.PlanID,
		UsageCount: sub.UsageCount,
		AssignedAt: sub.AssignedAt.Format(time.RFC3339),
	}
}
