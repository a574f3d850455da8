package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

const (
	envelopeField = "envelope"
	readCount     = 10
	// XREADGROUP with BLOCK 0 never returns, so an unset Block falls back here.
	defaultBlock = time.Second
)

// RedisStreamBus carries events on one redis stream per topic. Subscribers
// read through a consumer group and only XACK after the processor succeeded;
// entries left pending are claimed again after MinIdle, which gives
// at-least-once delivery.
type RedisStreamBus struct {
	client       *redis.Client
	config       *config.RedisStreamConfig
	logger       *logger.Logger
	subscribers  map[string]context.CancelFunc
	subscriberMu sync.Mutex
	waitGroup    sync.WaitGroup
}

func NewRedisStreamBus(client *redis.Client, config *config.RedisStreamConfig, logger *logger.Logger) *RedisStreamBus {
	return &RedisStreamBus{
		client:      client,
		config:      config,
		logger:      logger,
		subscribers: make(map[string]context.CancelFunc),
	}
}

func (b *RedisStreamBus) readBlock() time.Duration {
	if b.config.Block > 0 {
		return b.config.Block
	}
	return defaultBlock
}

func (b *RedisStreamBus) streamName(topic string) string {
	return b.config.StreamPrefix + topic
}

// Publish appends the event to the topic's stream.
func (b *RedisStreamBus) Publish(ctx context.Context, topic string, event any) error {
	envelope, err := domain.NewEnvelope(topic, event)
	if err != nil {
		return err
	}

	message, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	stream := b.streamName(topic)
	err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: b.config.MaxLen,
		Approx: true,
		Values: map[string]interface{}{envelopeField: message},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to redis stream %s: %w", stream, err)
	}

	return nil
}

// Subscribe starts delivering the topic's entries to processor until ctx is
// done or Close is called.
func (b *RedisStreamBus) Subscribe(ctx context.Context, topic string, processor service.EventProcessor) error {
	stream := b.streamName(topic)

	b.subscriberMu.Lock()
	defer b.subscriberMu.Unlock()

	if _, exists := b.subscribers[topic]; exists {
		b.logger.Infof("Already subscribed to stream: %s", stream)
		return nil
	}

	err := b.client.XGroupCreateMkStream(ctx, stream, b.config.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group on %s: %w", stream, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	b.subscribers[topic] = cancel

	b.waitGroup.Add(1)
	go func() {
		defer b.waitGroup.Done()
		defer b.logger.Infof("Closing subscription for stream: %s", stream)
		b.consume(subCtx, stream, processor)
	}()

	b.logger.Infof("Subscribed to stream: %s", stream)
	return nil
}

func (b *RedisStreamBus) consume(ctx context.Context, stream string, processor service.EventProcessor) {
	for ctx.Err() == nil {
		claimed, _, err := b.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   stream,
			Group:    b.config.Group,
			Consumer: b.config.Consumer,
			MinIdle:  b.config.MinIdle,
			Start:    "0-0",
			Count:    readCount,
		}).Result()
		if err != nil && ctx.Err() == nil {
			b.logger.Error("Failed to claim pending entries", err, zap.String("stream", stream))
		}
		b.handle(ctx, stream, claimed, processor)

		streams, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    b.config.Group,
			Consumer: b.config.Consumer,
			Streams:  []string{stream, ">"},
			Count:    readCount,
			Block:    b.readBlock(),
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			b.logger.Error("Failed to read stream", err, zap.String("stream", stream))
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}

		for _, s := range streams {
			b.handle(ctx, stream, s.Messages, processor)
		}
	}
}

func (b *RedisStreamBus) handle(ctx context.Context, stream string, messages []redis.XMessage, processor service.EventProcessor) {
	for _, msg := range messages {
		envelope, err := decodeEntry(msg)
		if err == nil {
			err = processor.Process(ctx, envelope)
		}

		if err != nil && !errors.Is(err, service.ErrInvalidEvent) {
			// Left pending, claimed again after MinIdle
			b.logger.Error("Failed to process stream entry", err,
				zap.String("stream", stream),
				zap.String("entry_id", msg.ID))
			continue
		}
		if err != nil {
			b.logger.Error("Dropping invalid stream entry", err,
				zap.String("stream", stream),
				zap.String("entry_id", msg.ID))
		}

		if err := b.client.XAck(ctx, stream, b.config.Group, msg.ID).Err(); err != nil {
			b.logger.Error("Failed to ack stream entry", err,
				zap.String("stream", stream),
				zap.String("entry_id", msg.ID))
		}
	}
}

func decodeEntry(msg redis.XMessage) (domain.Envelope, error) {
	var envelope domain.Envelope

	raw, ok := msg.Values[envelopeField].(string)
	if !ok {
		return envelope, fmt.Errorf("%w: entry %s has no %s field", service.ErrInvalidEvent, msg.ID, envelopeField)
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return envelope, fmt.Errorf("%w: entry %s: %v", service.ErrInvalidEvent, msg.ID, err)
	}
	return envelope, nil
}

// Close stops every subscription and waits for in-flight entries. A blocked
// XREADGROUP is not interrupted, so Close can take up to the configured Block.
func (b *RedisStreamBus) Close() {
	b.subscriberMu.Lock()
	for topic, cancel := range b.subscribers {
		cancel()
		delete(b.subscribers, topic)
	}
	b.subscriberMu.Unlock()

	b.waitGroup.Wait()
}
