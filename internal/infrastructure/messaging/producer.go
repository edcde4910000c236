// Package messaging 提供消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client        *redis.Client
	maxLen        int64
	profileStream Stream
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64, profileStream Stream) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	if profileStream == "" {
		profileStream = StreamProfileEvents
	}
	return &Producer{
		client:        client,
		maxLen:        maxLen,
		profileStream: profileStream,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type": msg.Type,
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishProfileEvent 发布档案事件，供下游报告生成等消费者使用
func (p *Producer) PublishProfileEvent(ctx context.Context, evt *ProfileEventMessage) (string, error) {
	msg, err := NewMessage(evt.EventID, evt.EventType, evt.UserID, evt.ProfileID, evt)
	if err != nil {
		return "", err
	}
	if evt.RequestID != "" {
		msg.SetMetadata("request_id", evt.RequestID)
	}

	return p.Publish(ctx, p.profileStream, msg)
}

// ProfileEventMessage 档案事件消息
type ProfileEventMessage struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	ProfileID     string    `json:"profile_id"`
	UserID        string    `json:"user_id"`
	DayPillar     string    `json:"day_pillar,omitempty"`
	StrengthLabel string    `json:"strength_label,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
