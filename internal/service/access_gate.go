package service

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/qs3c/api_access_gate/internal/model"
	"github.com/qs3c/api_access_gate/internal/repository"
)

// ErrConcurrentUpdate 判定期间订阅被反复改绑
var ErrConcurrentUpdate = errors.New("订阅在判定期间被并发修改")

// DenyReason 拒绝原因，放行时为空
type DenyReason string

const (
	ReasonEndpointNotPermitted DenyReason = "endpoint_not_permitted"
	ReasonQuotaExceeded        DenyReason = "quota_exceeded"
)

// maxConsumeAttempts 条件更新未命中时重新读取的次数上限
const maxConsumeAttempts = 3

// Decision 一次访问判定
type Decision struct {
	UserID     string
	Endpoint   string
	PlanID     string
	Allowed    bool
	Reason     DenyReason
	UsageCount int64
	Quota      int64
}

// Remaining 剩余可用次数
func (d *Decision) Remaining() int64 {
	if d.UsageCount >= d.Quota {
		return 0
	}
	return d.Quota - d.UsageCount
}

// AccessGate 访问判定并计量。
//
// 同一用户的并发调用由 subscriptions 行上的条件 UPDATE 串行化：
// usage_count < quota 与 +1 在一条语句内完成，不会出现两个请求都读到
// 未超额然后都自增的情况。不同用户更新不同的行，互不阻塞。
type AccessGate struct {
	db       *gorm.DB
	planRepo *repository.PlanRepository
	subRepo  *repository.SubscriptionRepository
	logger   *slog.Logger
}

func NewAccessGate(
	db *gorm.DB,
	planRepo *repository.PlanRepository,
	subRepo *repository.SubscriptionRepository,
	logger *slog.Logger,
) *AccessGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessGate{
		db:       db,
		planRepo: planRepo,
		subRepo:  subRepo,
		logger:   logger.With("component", "access_gate"),
	}
}

// CheckAndConsume 判定 userID 能否调用 endpoint，放行时计数恰好 +1
func (g *AccessGate) CheckAndConsume(ctx context.Context, userID, endpoint string) (*Decision, error) {
	for attempt := 0; attempt < maxConsumeAttempts; attempt++ {
		sub, err := g.subRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, translateErr(err, ErrSubscriptionNotFound, nil)
		}

		plan, err := g.planRepo.GetByID(ctx, sub.PlanID)
		if err != nil {
			return nil, translateErr(err, ErrPlanNotFound, nil)
		}

		decision := &Decision{
			UserID:     userID,
			Endpoint:   endpoint,
			PlanID:     plan.ID,
			UsageCount: sub.UsageCount,
			Quota:      plan.Quota,
		}

		if !plan.Permits(endpoint) {
			decision.Reason = ReasonEndpointNotPermitted
			return decision, nil
		}

		if sub.UsageCount >= plan.Quota {
			decision.Reason = ReasonQuotaExceeded
			return decision, nil
		}

		usage, consumed, err := g.consume(ctx, userID, plan)
		if err != nil {
			g.logger.ErrorContext(ctx, "consume failed", "user_id", userID, "endpoint", endpoint, "error", err)
			return nil, err
		}
		if consumed {
			decision.Allowed = true
			decision.UsageCount = usage
			return decision, nil
		}

		// 未命中：额度被并发用完、订阅被改绑或被取消，重新读取后再判定
		g.logger.DebugContext(ctx, "conditional increment missed", "user_id", userID, "attempt", attempt+1)
	}

	return nil, ErrConcurrentUpdate
}

// consume 条件自增并读回自增后的计数
func (g *AccessGate) consume(ctx context.Context, userID string, plan *model.Plan) (int64, bool, error) {
	var usage int64
	var consumed bool

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subs := g.subRepo.WithTx(tx)

		ok, err := subs.IncrementUsageIfBelow(ctx, userID, plan.ID, plan.Quota)
		if err != nil || !ok {
			return err
		}

		sub, err := subs.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		usage = sub.UsageCount
		consumed = true
		return nil
	})
	if err != nil {
		return 0, false, storageError(err)
	}
	return usage, consumed, nil
}
