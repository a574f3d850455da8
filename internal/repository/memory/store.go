// Package memory provides an in-process RecordStore for tests and local runs
// of a single service.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kingrain94/tenant-user-sync/internal/repository"
)

type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewStore() *Store {
	return &Store{records: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.records[key]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *Store) Scan(ctx context.Context, prefix string) ([]repository.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]repository.Record, 0)
	for key, value := range s.records {
		if strings.HasPrefix(key, prefix) {
			records = append(records, repository.Record{Key: key, Value: append([]byte(nil), value...)})
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })
	return records, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
