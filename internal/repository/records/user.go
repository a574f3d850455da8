package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/repository"
)

type UserRepository struct {
	store   repository.RecordStore
	service string
}

func NewUserRepository(store repository.RecordStore, service string) *UserRepository {
	return &UserRepository{
		store:   store,
		service: service,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return getJSON[domain.User](ctx, r.store, Key(r.service, KindUser, id))
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	return putJSON(ctx, r.store, Key(r.service, KindUser, user.ID), user)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, Key(r.service, KindUser, id))
}

// List scans every user record. A record that cannot be decoded fails the
// whole listing; callers deleting by tenant must not skip users they cannot
// read.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	scanned, err := r.store.Scan(ctx, KeyPrefix(r.service, KindUser))
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}

	users := make([]domain.User, 0, len(scanned))
	for _, rec := range scanned {
		var user domain.User
		if err := json.Unmarshal(rec.Value, &user); err != nil {
			return nil, fmt.Errorf("failed to decode user record %s: %w", rec.Key, err)
		}
		users = append(users, user)
	}
	return users, nil
}
