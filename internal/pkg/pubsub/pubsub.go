package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultDecisionChannel = "access_decisions"

	TypeAccessDecision = "access_decision"
)

// DecisionMessage 访问判定推送
type DecisionMessage struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Endpoint   string    `json:"endpoint"`
	Allowed    bool      `json:"allowed"`
	Reason     string    `json:"reason,omitempty"`
	UsageCount int64     `json:"usage_count"`
	Quota      int64     `json:"quota"`
	Remaining  int64     `json:"remaining"`
	DecidedAt  time.Time `json:"decided_at"`
}

// Publisher Redis 发布者
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher 创建发布者，channel 为空时使用默认频道
func NewPublisher(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultDecisionChannel
	}
	return &Publisher{client: client, channel: channel}
}

// PublishDecision 发布判定消息
func (p *Publisher) PublishDecision(ctx context.Context, msg *DecisionMessage) error {
	msg.Type = TypeAccessDecision

	if msg.Remaining == 0 && msg.Quota > msg.UsageCount {
		msg.Remaining = msg.Quota - msg.UsageCount
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal decision message: %w", err)
	}

	return p.client.Publish(ctx, p.channel, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client  *redis.Client
	channel string
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client, channel string) *Subscriber {
	if channel == "" {
		channel = DefaultDecisionChannel
	}
	return &Subscriber{client: client, channel: channel}
}

// Subscribe 订阅判定消息，阻塞直到 ctx 结束
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*DecisionMessage)) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	// 等待订阅确认，连接失败直接返回
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe %s: %w", s.channel, err)
	}

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var decision DecisionMessage
			if err := json.Unmarshal([]byte(msg.Payload), &decision); err != nil {
				continue // 忽略解析错误
			}

			handler(&decision)
		}
	}
}
