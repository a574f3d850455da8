// Package app opens the store and bus connections a service is configured
// with.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/repository"
	"github.com/kingrain94/tenant-user-sync/internal/repository/postgres"
	redisstore "github.com/kingrain94/tenant-user-sync/internal/repository/redis"
	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/internal/service/pubsub"
	"github.com/kingrain94/tenant-user-sync/internal/service/queue"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

// Backends holds the connections opened for one service. Exactly one of SQS
// and Streams is set, matching BUS_BACKEND. Redis is nil unless a Redis
// backend is in use.
type Backends struct {
	Store   repository.RecordStore
	Redis   *redis.Client
	SQS     *queue.SQSService
	Streams *pubsub.RedisStreamBus

	closers []func() error
}

func Open(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Backends, error) {
	b := &Backends{}

	if cfg.StoreBackend == config.StoreBackendRedis || cfg.BusBackend == config.BusBackendRedis {
		client, err := config.DefaultRedisConfig().GetClient(ctx)
		if err != nil {
			return nil, err
		}
		b.Redis = client
		b.closers = append(b.closers, client.Close)
		logger.Info("Redis connection established")
	}

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		dbConnections, err := config.NewDatabaseConnections()
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		b.closers = append(b.closers, dbConnections.Close)

		store := postgres.NewStore(dbConnections)
		if err := store.Migrate(ctx); err != nil {
			b.Close()
			return nil, err
		}
		b.Store = store
		logger.Info("Database connections established - writer and reader connected")
	default:
		b.Store = redisstore.NewStore(b.Redis)
	}

	switch cfg.BusBackend {
	case config.BusBackendRedis:
		b.Streams = pubsub.NewRedisStreamBus(b.Redis, config.DefaultRedisStreamConfig(cfg.ServiceName), logger)
		b.closers = append([]func() error{func() error { b.Streams.Close(); return nil }}, b.closers...)
	default:
		sqsConfig := config.DefaultSQSConfig()
		client, err := sqsConfig.GetClient(ctx)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to SQS: %w", err)
		}
		b.SQS = queue.NewSQSService(client, sqsConfig)
		logger.Info("SQS connection established")
	}

	return b, nil
}

// Publisher returns the configured bus.
func (b *Backends) Publisher() service.Publisher {
	if b.Streams != nil {
		return b.Streams
	}
	return b.SQS
}

// Close releases every connection, the bus first.
func (b *Backends) Close() error {
	var err error
	for _, closer := range b.closers {
		err = multierr.Append(err, closer())
	}
	b.closers = nil
	return err
}
