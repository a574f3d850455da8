package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/repository"
	"github.com/kingrain94/tenant-user-sync/internal/repository/records"
)

type StoreTestSuite struct {
	suite.Suite
	ctx    context.Context
	server *miniredis.Miniredis
	client *redis.Client
	store  *Store
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.server = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.server.Addr()})
	s.store = NewStore(s.client)
}

func (s *StoreTestSuite) TearDownTest() {
	s.Require().NoError(s.client.Close())
}

func TestStore(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestGet_Missing() {
	value, err := s.store.Get(s.ctx, "user-service||user||missing")

	s.ErrorIs(err, repository.ErrRecordNotFound)
	s.Nil(value)
}

func (s *StoreTestSuite) TestPutGetDelete() {
	s.Require().NoError(s.store.Put(s.ctx, "k", []byte(`{"id":"k"}`)))

	value, err := s.store.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.JSONEq(`{"id":"k"}`, string(value))

	s.Require().NoError(s.store.Delete(s.ctx, "k"))
	s.False(s.server.Exists("k"))

	// Deleting again is not an error
	s.NoError(s.store.Delete(s.ctx, "k"))
}

func (s *StoreTestSuite) TestScan_SpansMGetBatches() {
	// Arrange
	users := records.NewUserRepository(s.store, "user-service")
	shadows := records.NewTenantShadowRepository(s.store, "user-service")
	s.Require().NoError(shadows.Save(s.ctx, &domain.TenantShadow{ID: "t1"}))

	const total = 250
	for i := 0; i < total; i++ {
		s.Require().NoError(users.Save(s.ctx, &domain.User{ID: fmt.Sprintf("u-%03d", i), TenantID: "t1"}))
	}

	// Act
	listed, err := users.List(s.ctx)

	// Assert
	s.Require().NoError(err)
	s.Len(listed, total)

	seen := make(map[string]bool, total)
	for _, user := range listed {
		seen[user.ID] = true
	}
	s.Len(seen, total)
}

func (s *StoreTestSuite) TestScan_EscapesGlobCharacters() {
	s.Require().NoError(s.store.Put(s.ctx, "a*b||user||1", []byte("1")))
	s.Require().NoError(s.store.Put(s.ctx, "axb||user||2", []byte("2")))
	s.Require().NoError(s.store.Put(s.ctx, "a?b||user||3", []byte("3")))

	scanned, err := s.store.Scan(s.ctx, "a*b||user||")

	s.Require().NoError(err)
	s.Require().Len(scanned, 1)
	s.Equal("a*b||user||1", scanned[0].Key)
	s.Equal([]byte("1"), scanned[0].Value)
}

func (s *StoreTestSuite) TestScan_Empty() {
	scanned, err := s.store.Scan(s.ctx, "user-service||user||")

	s.NoError(err)
	s.Empty(scanned)
}

func (s *StoreTestSuite) TestStoreUnavailable() {
	s.server.Close()

	_, err := s.store.Get(s.ctx, "k")
	s.Error(err)
	s.NotErrorIs(err, repository.ErrRecordNotFound)

	_, err = s.store.Scan(s.ctx, "user-service||user||")
	s.Error(err)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]e\\f`, escapeGlob(`a*b?c[d]e\f`))
	assert.Equal(t, "user-service||user||", escapeGlob("user-service||user||"))
}
