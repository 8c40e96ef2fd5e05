package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/qs3c/api_access_gate/internal/model/dto"
	"github.com/qs3c/api_access_gate/internal/repository"
)

// UsageService 按接口的调用明细。数据由 worker 异步写入，只作展示，
// 权威计数始终是 subscriptions.usage_count
type UsageService struct {
	usageRepo *repository.UsageRepository
	logger    *slog.Logger
}

func NewUsageService(usageRepo *repository.UsageRepository, logger *slog.Logger) *UsageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UsageService{
		usageRepo: usageRepo,
		logger:    logger.With("component", "usage_ledger"),
	}
}

// Record 记录一次判定
func (s *UsageService) Record(ctx context.Context, userID, endpoint string, allowed bool, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	if err := s.usageRepo.Record(ctx, userID, endpoint, allowed, at); err != nil {
		return storageError(err)
	}
	return nil
}

// GetUsage 获取用户各接口调用明细
func (s *UsageService) GetUsage(ctx context.Context, userID string) (*dto.UsageResponse, error) {
	rows, err := s.usageRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, storageError(err)
	}

	items := make([]*dto.EndpointUsageInfo, 0, len(rows))
	for _, row := range rows {
		item := &dto.EndpointUsageInfo{
			Endpoint:     row.Endpoint,
			AllowedCalls: row.AllowedCalls,
			DeniedCalls:  row.DeniedCalls,
		}
		if !row.LastAccessAt.IsZero() {
			item.LastAccessAt = row.LastAccessAt.Format(time.RFC3339)
		}
		items = append(items, item)
	}

	return &dto.UsageResponse{UserID: userID, Endpoints: items}, nil
}

// PruneStale 清理 before 之前未再访问的明细，dryRun 时只统计不删除
func (s *UsageService) PruneStale(ctx context.Context, before time.Time, dryRun bool) (int64, error) {
	if dryRun {
		count, err := s.usageRepo.CountStaleBefore(ctx, before)
		if err != nil {
			return 0, storageError(err)
		}
		return count, nil
	}

	deleted, err := s.usageRepo.DeleteStaleBefore(ctx, before)
	if err != nil {
		return 0, storageError(err)
	}
	s.logger.InfoContext(ctx, "stale usage rows pruned", "before", before.Format(time.RFC3339), "deleted", deleted)
	return deleted, nil
}
