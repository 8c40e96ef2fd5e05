package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/api_access_gate/internal/model"
	"github.com/qs3c/api_access_gate/internal/model/dto"
	"github.com/qs3c/api_access_gate/internal/repository"
)

var (
	ErrPlanNotFound   = errors.New("套餐不存在")
	ErrPlanNameExists = errors.New("套餐名称已存在")
	ErrPlanInUse      = errors.New("套餐仍被订阅引用，无法删除")
	ErrInvalidQuota   = errors.New("配额不能为负数")
)

// PlanPatch 部分更新，nil 字段表示未提交，非 nil 即使为空值也会写入
type PlanPatch struct {
	Name               *string
	Description        *string
	PermittedEndpoints *[]string
	Quota              *int64
}

type PlanService struct {
	db       *gorm.DB
	planRepo *repository.PlanRepository
	subRepo  *repository.SubscriptionRepository
	logger   *slog.Logger
}

func NewPlanService(
	db *gorm.DB,
	planRepo *repository.PlanRepository,
	subRepo *repository.SubscriptionRepository,
	logger *slog.Logger,
) *PlanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanService{
		db:       db,
		planRepo: planRepo,
		subRepo:  subRepo,
		logger:   logger.With("component", "plan_catalog"),
	}
}

// CreatePlan 创建套餐
func (s *PlanService) CreatePlan(ctx context.Context, name, description string, endpoints []string, quota int64) (*dto.PlanInfo, error) {
	if quota < 0 {
		return nil, ErrInvalidQuota
	}

	exists, err := s.planRepo.ExistsByName(ctx, name, "")
	if err != nil {
		return nil, storageError(err)
	}
	if exists {
		return nil, ErrPlanNameExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	plan := &model.Plan{
		ID:                 id.String(),
		Name:               name,
		Description:        description,
		PermittedEndpoints: model.NormalizeEndpoints(endpoints),
		Quota:              quota,
	}

	// 唯一索引兜底并发创建同名套餐
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, translateErr(err, nil, ErrPlanNameExists)
	}

	s.logger.InfoContext(ctx, "plan created", "plan_id", plan.ID, "name", plan.Name, "quota", plan.Quota)
	return buildPlanInfo(plan), nil
}

// UpdatePlan 部分更新套餐
func (s *PlanService) UpdatePlan(ctx context.Context, id string, patch PlanPatch) (*dto.PlanInfo, error) {
	if patch.Quota != nil && *patch.Quota < 0 {
		return nil, ErrInvalidQuota
	}

	var updated *model.Plan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plans := s.planRepo.WithTx(tx)

		plan, err := plans.GetByIDForUpdate(ctx, id)
		if err != nil {
			return translateErr(err, ErrPlanNotFound, nil)
		}

		if patch.Name != nil && *patch.Name != plan.Name {
			exists, err := plans.ExistsByName(ctx, *patch.Name, plan.ID)
			if err != nil {
				return storageError(err)
			}
			if exists {
				return ErrPlanNameExists
			}
			plan.Name = *patch.Name
		}
		if patch.Description != nil {
			plan.Description = *patch.Description
		}
		if patch.PermittedEndpoints != nil {
			plan.PermittedEndpoints = model.NormalizeEndpoints(*patch.PermittedEndpoints)
		}
		if patch.Quota != nil {
			plan.Quota = *patch.Quota
		}

		if err := plans.Update(ctx, plan); err != nil {
			return translateErr(err, nil, ErrPlanNameExists)
		}
		updated = plan
		return nil
	})
	if err != nil {
		return nil, translateErr(err, nil, nil)
	}

	s.logger.InfoContext(ctx, "plan updated", "plan_id", updated.ID)
	return buildPlanInfo(updated), nil
}

// DeletePlan 删除套餐，仍有订阅引用时拒绝
func (s *PlanService) DeletePlan(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plans := s.planRepo.WithTx(tx)

		if _, err := plans.GetByIDForUpdate(ctx, id); err != nil {
			return translateErr(err, ErrPlanNotFound, nil)
		}

		refs, err := s.subRepo.WithTx(tx).CountByPlanID(ctx, id)
		if err != nil {
			return storageError(err)
		}
		if refs > 0 {
			return ErrPlanInUse
		}

		if _, err := plans.Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrPlanInUse
			}
			return storageError(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPlanInUse) {
			s.logger.WarnContext(ctx, "plan delete rejected", "plan_id", id)
		}
		return translateErr(err, nil, nil)
	}

	s.logger.InfoContext(ctx, "plan deleted", "plan_id", id)
	return nil
}

// GetPlan 获取套餐
func (s *PlanService) GetPlan(ctx context.Context, id string) (*dto.PlanInfo, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateErr(err, ErrPlanNotFound, nil)
	}
	return buildPlanInfo(plan), nil
}

// ListPlans 按创建顺序列出套餐
func (s *PlanService) ListPlans(ctx context.Context) ([]*dto.PlanInfo, error) {
	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	items := make([]*dto.PlanInfo, 0, len(plans))
	for _, p := range plans {
		items = append(items, buildPlanInfo(p))
	}
	return items, nil
}

func buildPlanInfo(plan *model.Plan) *dto.PlanInfo {
	endpoints := make([]string, len(plan.PermittedEndpoints))
	copy(endpoints, plan.PermittedEndpoints)

	return &dto.PlanInfo{
		ID:                 plan.ID,
		Name:               plan.Name,
		Description:        plan.Description,
		PermittedEndpoints: endpoints,
		Quota:              plan.Quota,
		CreatedAt:          plan.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          plan.UpdatedAt.Format(time.RFC3339),
	}
}
