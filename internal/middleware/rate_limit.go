package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

// RateLimitMiddleware counts requests per client IP in fixed one-minute
// windows kept in Redis. With no Redis client it lets everything through.
type RateLimitMiddleware struct {
	redis  *redis.Client
	config *config.Config
	logger *logger.Logger
}

func NewRateLimitMiddleware(redis *redis.Client, config *config.Config, logger *logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redis:  redis,
		config: config,
		logger: logger,
	}
}

func rateLimitKey(service, clientIP string) string {
	return fmt.Sprintf("rate_limit:%s:%s", service, clientIP)
}

// GlobalRateLimit implements global rate limiting based on IP
func (m *RateLimitMiddleware) GlobalRateLimit() gin.HandlerFunc {
	limit := m.config.GlobalRateLimit

	return func(c *gin.Context) {
		if m.redis == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rateLimitKey(m.config.ServiceName, c.ClientIP())
		reset := strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10)

		current, err := m.redis.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			// Fail open.
			m.logger.Error("Redis error in global rate limiting", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Reset", reset)

		if current >= limit {
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Global rate limit exceeded",
				"limit": limit,
			})
			return
		}

		pipe := m.redis.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, time.Minute)
		if _, err := pipe.Exec(ctx); err != nil {
			m.logger.Error("Redis pipeline error in global rate limiting", err)
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-(current+1), 0)))
		c.Next()
	}
}
