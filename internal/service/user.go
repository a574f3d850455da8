package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/repository"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

// UserService owns user records. It reads tenant shadows to check references
// but never writes them and never publishes.
type UserService struct {
	repo   repository.UserServiceRepository
	logger *logger.Logger
}

func NewUserService(repo repository.UserServiceRepository, logger *logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserService) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.logger.Info("Creating user", zap.String("user_id", user.ID))

	if _, err := s.GetByID(ctx, user.ID); err == nil {
		return nil, fmt.Errorf("user '%s': %w", user.ID, ErrUserExists)
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	if err := s.checkTenant(ctx, user.TenantID); err != nil {
		return nil, err
	}

	if err := s.repo.User().Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// Update re-checks the tenant reference against the shadow as it is at the
// time of the call, so a user cannot be pointed at a tenant whose deletion has
// already reached this service.
func (s *UserService) Update(ctx context.Context, id string, user *domain.User) error {
	s.logger.Info("Updating user", zap.String("user_id", id))

	if id != user.ID {
		return ErrIDMismatch
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.checkTenant(ctx, user.TenantID); err != nil {
		return err
	}

	if err := s.repo.User().Save(ctx, user); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	s.logger.Info("Deleting user", zap.String("user_id", id))

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *UserService) checkTenant(ctx context.Context, tenantID string) error {
	found, err := s.repo.TenantShadow().Exists(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to check tenant: %w", err)
	}
	if !found {
		return fmt.Errorf("tenant '%s': %w", tenantID, ErrTenantReference)
	}
	return nil
}
