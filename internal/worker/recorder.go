package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/qs3c/api_access_gate/internal/pkg/queue"
	"github.com/qs3c/api_access_gate/internal/service"
)

// EventSource 访问事件来源
type EventSource interface {
	Pop(ctx context.Context, timeout time.Duration) (*queue.AccessEvent, error)
}

// Recorder 将访问事件写入按接口的调用明细
type Recorder struct {
	usageService *service.UsageService
	logger       *slog.Logger
}

// NewRecorder 创建事件记录器
func NewRecorder(usageService *service.UsageService, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		usageService: usageService,
		logger:       logger.With("component", "usage_recorder"),
	}
}

var errInvalidEvent = errors.New("invalid access event")

// Process 处理单个事件
func (r *Recorder) Process(ctx context.Context, event *queue.AccessEvent) error {
	if event == nil || event.UserID == "" || event.Endpoint == "" {
		return errInvalidEvent
	}

	if err := r.usageService.Record(ctx, event.UserID, event.Endpoint, event.Allowed, event.OccurredAt); err != nil {
		return fmt.Errorf("record usage for %s: %w", event.UserID, err)
	}
	return nil
}

// Run 启动 workers 个消费协程，阻塞直到 ctx 取消
func (r *Recorder) Run(ctx context.Context, source EventSource, workers int, popTimeout time.Duration) {
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r.loop(ctx, source, workerID, popTimeout)
		}(i)
	}
	wg.Wait()
}

func (r *Recorder) loop(ctx context.Context, source EventSource, workerID int, popTimeout time.Duration) {
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("worker shutting down", "worker_id", workerID)
			return
		default:
		}

		event, err := source.Pop(ctx, popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.Warn("failed to pop event", "worker_id", workerID, "error", err)
			// 避免 Redis 不可用时空转
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if event == nil {
			continue // 超时，继续等待
		}

		if err := r.Process(ctx, event); err != nil {
			r.logger.Error("failed to record event",
				"worker_id", workerID,
				"user_id", event.UserID,
				"endpoint", event.Endpoint,
				"error", err)
		}
	}
}
