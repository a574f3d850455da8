package records

import (
	"context"

	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/repository"
)

type TenantRepository struct {
	store   repository.RecordStore
	service string
}

func NewTenantRepository(store repository.RecordStore, service string) *TenantRepository {
	return &TenantRepository{
		store:   store,
		service: service,
	}
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return getJSON[domain.Tenant](ctx, r.store, Key(r.service, KindTenant, id))
}

func (r *TenantRepository) Save(ctx context.Context, tenant *domain.Tenant) error {
	return putJSON(ctx, r.store, Key(r.service, KindTenant, tenant.ID), tenant)
}

func (r *TenantRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, Key(r.service, KindTenant, id))
}

// TenantShadowRepository stores the user service's tenant shadows. They live
// under the tenant kind of the user service's namespace.
type TenantShadowRepository struct {
	store   repository.RecordStore
	service string
}

func NewTenantShadowRepository(store repository.RecordStore, service string) *TenantShadowRepository {
	return &TenantShadowRepository{
		store:   store,
		service: service,
	}
}

func (r *TenantShadowRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.store, Key(r.service, KindTenant, id))
}

func (r *TenantShadowRepository) Save(ctx context.Context, shadow *domain.TenantShadow) error {
	return putJSON(ctx, r.store, Key(r.service, KindTenant, shadow.ID), shadow)
}

func (r *TenantShadowRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, Key(r.service, KindTenant, id))
}
