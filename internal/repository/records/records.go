// Package records implements the typed repositories on top of a shared
// RecordStore. Every key is namespaced by the owning service so that the two
// services can share one store without colliding.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kingrain94/tenant-user-sync/internal/repository"
)

const (
	keySeparator = "||"

	KindTenant = "tenant"
	KindUser   = "user"
)

// Key builds "<service>||<kind>||<id>".
func Key(service, kind, id string) string {
	return KeyPrefix(service, kind) + id
}

// KeyPrefix builds the scan prefix shared by every record of one kind.
func KeyPrefix(service, kind string) string {
	return strings.Join([]string{service, kind, ""}, keySeparator)
}

func getJSON[T any](ctx context.Context, store repository.RecordStore, key string) (*T, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", key, err)
	}
	return &value, nil
}

func putJSON(ctx context.Context, store repository.RecordStore, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", key, err)
	}
	return store.Put(ctx, key, data)
}

func exists(ctx context.Context, store repository.RecordStore, key string) (bool, error) {
	if _, err := store.Get(ctx, key); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
