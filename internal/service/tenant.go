package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/metrics"
	"github.com/kingrain94/tenant-user-sync/internal/repository"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

//go:generate mockery --name Publisher --output ../mocks
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
}

// TenantService owns the authoritative tenant records and announces their
// creation and deletion on the bus.
type TenantService struct {
	repo      repository.TenantServiceRepository
	publisher Publisher
	logger    *logger.Logger
	metrics   metrics.Recorder
}

func NewTenantService(repo repository.TenantServiceRepository, publisher Publisher, logger *logger.Logger, recorder metrics.Recorder) *TenantService {
	return &TenantService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		metrics:   recorder,
	}
}

func (s *TenantService) Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	s.logger.Info("Creating tenant", zap.String("tenant_id", tenant.ID))

	if _, err := s.GetByID(ctx, tenant.ID); err == nil {
		return nil, fmt.Errorf("tenant '%s': %w", tenant.ID, ErrTenantExists)
	} else if !errors.Is(err, ErrTenantNotFound) {
		return nil, err
	}

	if err := s.repo.Tenant().Save(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to store tenant: %w", err)
	}

	s.publish(ctx, domain.TopicTenantCreated, domain.TenantCreated{ID: tenant.ID})

	return tenant, nil
}

func (s *TenantService) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	tenant, err := s.repo.Tenant().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	return tenant, nil
}

// Update overwrites the tenant. No event is published: the user service only
// keeps the tenant id.
func (s *TenantService) Update(ctx context.Context, id string, tenant *domain.Tenant) error {
	s.logger.Info("Updating tenant", zap.String("tenant_id", id))

	if id != tenant.ID {
		return ErrIDMismatch
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Tenant().Save(ctx, tenant); err != nil {
		return fmt.Errorf("failed to store tenant: %w", err)
	}
	return nil
}

func (s *TenantService) Delete(ctx context.Context, id string) error {
	s.logger.Info("Deleting tenant", zap.String("tenant_id", id))

	tenant, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Tenant().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	s.publish(ctx, domain.TopicTenantDeleted, domain.TenantDeleted{ID: tenant.ID})

	return nil
}

// publish runs after the store mutation succeeded. A failed publish is logged
// and counted but neither retried nor rolled back.
func (s *TenantService) publish(ctx context.Context, topic string, event any) {
	err := s.publisher.Publish(ctx, topic, event)
	s.metrics.RecordPublish(topic, err)
	if err != nil {
		s.logger.Error("Failed to publish event", err, zap.String("topic", topic))
	}
}
