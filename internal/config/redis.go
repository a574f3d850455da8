package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:     getEnvWithDefault("REDIS_HOST", "localhost"),
		Port:     getEnvWithDefault("REDIS_PORT", "6379"),
		Password: getEnvWithDefault("REDIS_PASSWORD", ""),
		DB:       getEnvIntWithDefault("REDIS_DB", 0),
	}
}

func (c *RedisConfig) GetClient(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Password: c.Password,
		DB:       c.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// RedisStreamConfig configures the Redis Streams event bus. Every topic maps to
// the stream StreamPrefix+topic, consumed by a single consumer group.
type RedisStreamConfig struct {
	StreamPrefix string
	Group        string
	Consumer     string
	// MinIdle is how long a delivered entry stays unacknowledged before it is
	// claimed again for redelivery.
	MinIdle time.Duration
	// Block bounds one XREADGROUP call, and with it how long Close waits for
	// a subscription to notice cancellation.
	Block time.Duration
	// MaxLen caps each stream with approximate trimming. Trimming does not
	// look at the pending list, so a consumer that falls more than MaxLen
	// entries behind loses events. Zero disables trimming.
	MaxLen int64
}

func DefaultRedisStreamConfig(serviceName string) *RedisStreamConfig {
	consumer, err := os.Hostname()
	if err != nil || consumer == "" {
		consumer = serviceName
	}

	return &RedisStreamConfig{
		StreamPrefix: getEnvWithDefault("REDIS_STREAM_PREFIX", "events:"),
		Group:        getEnvWithDefault("REDIS_STREAM_GROUP", serviceName),
		Consumer:     getEnvWithDefault("REDIS_STREAM_CONSUMER", consumer),
		MinIdle:      getEnvDurationWithDefault("REDIS_STREAM_MIN_IDLE", 30*time.Second),
		Block:        getEnvDurationWithDefault("REDIS_STREAM_BLOCK", time.Second),
		MaxLen:       int64(getEnvIntWithDefault("REDIS_STREAM_MAX_LEN", 0)),
	}
}
