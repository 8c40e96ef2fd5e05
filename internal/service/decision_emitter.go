package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/qs3c/api_access_gate/internal/pkg/pubsub"
	"github.com/qs3c/api_access_gate/internal/pkg/queue"
)

// EventPusher 访问事件队列
type EventPusher interface {
	Push(ctx context.Context, event *queue.AccessEvent) error
}

// DecisionPublisher 判定推送
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, msg *pubsub.DecisionMessage) error
}

// DecisionEmitter 判定完成后投递事件。投递失败只记日志，不影响已做出的判定
type DecisionEmitter struct {
	events    EventPusher
	publisher DecisionPublisher
	logger    *slog.Logger
}

// NewDecisionEmitter events、publisher 均可为 nil
func NewDecisionEmitter(events EventPusher, publisher DecisionPublisher, logger *slog.Logger) *DecisionEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecisionEmitter{
		events:    events,
		publisher: publisher,
		logger:    logger.With("component", "decision_emitter"),
	}
}

func (e *DecisionEmitter) Emit(ctx context.Context, d *Decision) {
	if e == nil || d == nil {
		return
	}
	now := time.Now()

	if e.events != nil {
		err := e.events.Push(ctx, &queue.AccessEvent{
			UserID:     d.UserID,
			Endpoint:   d.Endpoint,
			PlanID:     d.PlanID,
			Allowed:    d.Allowed,
			Reason:     string(d.Reason),
			UsageCount: d.UsageCount,
			Quota:      d.Quota,
			OccurredAt: now,
		})
		if err != nil {
			e.logger.WarnContext(ctx, "push access event failed", "user_id", d.UserID, "error", err)
		}
	}

	if e.publisher != nil {
		err := e.publisher.PublishDecision(ctx, &pubsub.DecisionMessage{
			UserID:     d.UserID,
			Endpoint:   d.Endpoint,
			Allowed:    d.Allowed,
			Reason:     string(d.Reason),
			UsageCount: d.UsageCount,
			Quota:      d.Quota,
			Remaining:  d.Remaining(),
			DecidedAt:  now,
		})
		if err != nil {
			e.logger.WarnContext(ctx, "publish decision failed", "user_id", d.UserID, "error", err)
		}
	}
}
