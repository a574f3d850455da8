package records

import (
	"github.com/kingrain94/tenant-user-sync/internal/repository"
)

type tenantServiceRepository struct {
	tenantRepo repository.TenantRepository
}

// NewTenantServiceRepository wires the repositories of the tenant service.
func NewTenantServiceRepository(store repository.RecordStore, service string) repository.TenantServiceRepository {
	return &tenantServiceRepository{
		tenantRepo: NewTenantRepository(store, service),
	}
}

func (r *tenantServiceRepository) Tenant() repository.TenantRepository {
	return r.tenantRepo
}

type userServiceRepository struct {
	userRepo   repository.UserRepository
	shadowRepo repository.TenantShadowRepository
}

// NewUserServiceRepository wires the repositories of the user service.
func NewUserServiceRepository(store repository.RecordStore, service string) repository.UserServiceRepository {
	return &userServiceRepository{
		userRepo:   NewUserRepository(store, service),
		shadowRepo: NewTenantShadowRepository(store, service),
	}
}

func (r *userServiceRepository) User() repository.UserRepository {
	return r.userRepo
}

func (r *userServiceRepository) TenantShadow() repository.TenantShadowRepository {
	return r.shadowRepo
}
