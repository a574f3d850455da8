package repository

import (
	"context"
	"errors"

	"github.com/kingrain94/tenant-user-sync/internal/domain"
)

// ErrRecordNotFound is returned when a key has no record. Absence is always
// reported through this error and never through a zero value.
var ErrRecordNotFound = errors.New("record not found")

// Record is a raw keyed value returned by a scan.
type Record struct {
	Key   string
	Value []byte
}

// RecordStore is the shared key/value store both services talk to. There are
// no transactions across keys and no secondary indexes.
//
//go:generate mockery --name RecordStore --output ../mocks
type RecordStore interface {
	// Get returns ErrRecordNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete of an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Scan returns every record whose key starts with prefix.
	Scan(ctx context.Context, prefix string) ([]Record, error)
}

//go:generate mockery --name TenantRepository --output ../mocks
type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	Save(ctx context.Context, tenant *domain.Tenant) error
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name TenantShadowRepository --output ../mocks
type TenantShadowRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, shadow *domain.TenantShadow) error
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name UserRepository --output ../mocks
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	// List performs a full scan over every user record.
	List(ctx context.Context) ([]domain.User, error)
}

// TenantServiceRepository groups the records owned by the tenant service.
//
//go:generate mockery --name TenantServiceRepository --output ../mocks
type TenantServiceRepository interface {
	Tenant() TenantRepository
}

// UserServiceRepository groups the records owned by the user service.
//
//go:generate mockery --name UserServiceRepository --output ../mocks
type UserServiceRepository interface {
	User() UserRepository
	TenantShadow() TenantShadowRepository
}
