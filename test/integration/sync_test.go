package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/tenant-user-sync/internal/api"
	"github.com/kingrain94/tenant-user-sync/internal/api/dto"
	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/metrics"
	"github.com/kingrain94/tenant-user-sync/internal/middleware"
	"github.com/kingrain94/tenant-user-sync/internal/repository/memory"
	"github.com/kingrain94/tenant-user-sync/internal/repository/records"
	"github.com/kingrain94/tenant-user-sync/internal/service"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

// pushBus queues published events and pushes them to the user service's
// event-delivery endpoints when flushed, the way a push subscription would.
type pushBus struct {
	mu      sync.Mutex
	pending []pushedEvent
	target  http.Handler
	token   string
}

type pushedEvent struct {
	topic string
	body  []byte
}

func (b *pushBus) Publish(_ context.Context, topic string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, pushedEvent{topic: topic, body: body})
	return nil
}

// flush delivers every pending event and returns the response codes.
func (b *pushBus) flush() []int {
	b.mu.Lock()
	events := b.pending
	b.pending = nil
	b.mu.Unlock()

	codes := make([]int, 0, len(events))
	for _, e := range events {
		req := httptest.NewRequest(http.MethodPost, "/events/"+e.topic, bytes.NewReader(e.body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+b.token)

		w := httptest.NewRecorder()
		b.target.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	return codes
}

type SyncTestSuite struct {
	suite.Suite
	store   *memory.Store
	bus     *pushBus
	tenants *gin.Engine
	users   *gin.Engine
}

func newServer(cfg *config.Config, appLogger *logger.Logger) (*api.Server, metrics.Recorder) {
	registry := prometheus.NewRegistry()
	server := api.NewServer(
		cfg,
		middleware.NewAuthMiddleware(cfg),
		middleware.NewRateLimitMiddleware(nil, cfg, appLogger),
		middleware.NewValidationMiddleware(appLogger),
		appLogger,
		registry,
	)
	return server, metrics.NewCollector(registry)
}

func (s *SyncTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	appLogger := logger.NewLogger("test")
	s.store = memory.NewStore()

	// User service
	userCfg := &config.Config{ServiceName: config.UserServiceName, EventAuthSecret: "secret", JWTExpirationHours: 1}
	userServer, userMetrics := newServer(userCfg, appLogger)
	userRepo := records.NewUserServiceRepository(s.store, userCfg.ServiceName)
	projection := service.NewTenantProjection(userRepo, service.NewLogCascadeReporter(appLogger), appLogger, userMetrics, 4)

	users, err := userServer.Router()
	s.Require().NoError(err)
	userServer.SetupUserRoutes(users, api.NewUserHandler(service.NewUserService(userRepo, appLogger)), api.NewEventHandler(projection, appLogger))
	s.users = users

	token, err := middleware.NewAuthMiddleware(userCfg).GenerateToken(config.TenantServiceName, []string{string(domain.RoleEventPublisher)})
	s.Require().NoError(err)
	s.bus = &pushBus{target: users, token: token}

	// Tenant service
	tenantCfg := &config.Config{ServiceName: config.TenantServiceName}
	tenantServer, tenantMetrics := newServer(tenantCfg, appLogger)
	tenantRepo := records.NewTenantServiceRepository(s.store, tenantCfg.ServiceName)

	tenants, err := tenantServer.Router()
	s.Require().NoError(err)
	tenantServer.SetupTenantRoutes(tenants, api.NewTenantHandler(service.NewTenantService(tenantRepo, s.bus, appLogger, tenantMetrics)))
	s.tenants = tenants
}

func TestSync(t *testing.T) {
	suite.Run(t, new(SyncTestSuite))
}

func do(t require.TestingT, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newUserRequest(tenantID string) dto.UserRequest {
	return dto.UserRequest{
		ID:           uuid.NewString(),
		FirstName:    "Grace",
		LastName:     "Hopper",
		EmailAddress: "grace@example.com",
		TenantID:     tenantID,
	}
}

func (s *SyncTestSuite) createTenant() string {
	id := uuid.NewString()
	w := do(s.T(), s.tenants, http.MethodPost, "/tenant", dto.TenantRequest{ID: id, Name: "Contoso", Sku: "free"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return id
}

func (s *SyncTestSuite) TestUserCreationWaitsForTenantCreated() {
	// Arrange
	tenantID := s.createTenant()
	user := newUserRequest(tenantID)

	// Act + Assert: the shadow does not exist until the event is delivered.
	w := do(s.T(), s.users, http.MethodPost, "/user", user)
	s.Equal(http.StatusBadRequest, w.Code)

	s.Equal([]int{http.StatusOK}, s.bus.flush())

	w = do(s.T(), s.users, http.MethodPost, "/user", user)
	s.Equal(http.StatusCreated, w.Code)

	w = do(s.T(), s.users, http.MethodGet, "/user/"+user.ID, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *SyncTestSuite) TestTenantDeletionCascadesToUsers() {
	// Arrange
	doomed := s.createTenant()
	kept := s.createTenant()
	s.bus.flush()

	var doomedUsers, keptUsers []string
	for i := 0; i < 10; i++ {
		u := newUserRequest(doomed)
		s.Require().Equal(http.StatusCreated, do(s.T(), s.users, http.MethodPost, "/user", u).Code)
		doomedUsers = append(doomedUsers, u.ID)
	}
	for i := 0; i < 3; i++ {
		u := newUserRequest(kept)
		s.Require().Equal(http.StatusCreated, do(s.T(), s.users, http.MethodPost, "/user", u).Code)
		keptUsers = append(keptUsers, u.ID)
	}

	// Act
	s.Equal(http.StatusNoContent, do(s.T(), s.tenants, http.MethodDelete, "/tenant/"+doomed, nil).Code)
	s.Equal([]int{http.StatusOK}, s.bus.flush())

	// Assert
	s.Equal(http.StatusNotFound, do(s.T(), s.tenants, http.MethodGet, "/tenant/"+doomed, nil).Code)
	for _, id := range doomedUsers {
		s.Equal(http.StatusNotFound, do(s.T(), s.users, http.MethodGet, "/user/"+id, nil).Code, id)
	}
	for _, id := range keptUsers {
		s.Equal(http.StatusOK, do(s.T(), s.users, http.MethodGet, "/user/"+id, nil).Code, id)
	}

	// New users can no longer reference the deleted tenant.
	s.Equal(http.StatusBadRequest, do(s.T(), s.users, http.MethodPost, "/user", newUserRequest(doomed)).Code)
}

func (s *SyncTestSuite) TestRedeliveredEventsAreHarmless() {
	tenantID := s.createTenant()
	s.bus.mu.Lock()
	s.bus.pending = append(s.bus.pending, s.bus.pending...)
	s.bus.mu.Unlock()

	s.Equal([]int{http.StatusOK, http.StatusOK}, s.bus.flush())
	s.Equal(http.StatusCreated, do(s.T(), s.users, http.MethodPost, "/user", newUserRequest(tenantID)).Code)
}

func (s *SyncTestSuite) TestHighConcurrencyUserCreation() {
	tenantID := s.createTenant()
	s.bus.flush()

	const workers = 20
	const perWorker = 10

	var wg sync.WaitGroup
	codes := make(chan int, workers*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				codes <- do(s.T(), s.users, http.MethodPost, "/user", newUserRequest(tenantID)).Code
			}
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Equal(s.T(), http.StatusCreated, code)
	}

	s.Equal(http.StatusNoContent, do(s.T(), s.tenants, http.MethodDelete, "/tenant/"+tenantID, nil).Code)
	s.Equal([]int{http.StatusOK}, s.bus.flush())
	s.Equal(0, s.store.Len())
}

func BenchmarkTenantCascade(b *testing.B) {
	appLogger := logger.NewLogger("production")
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		store := memory.NewStore()
		repo := records.NewUserServiceRepository(store, config.UserServiceName)
		projection := service.NewTenantProjection(repo, service.CascadeReporters{}, appLogger, metrics.Noop{}, 16)
		tenantID := uuid.NewString()
		for j := 0; j < 1000; j++ {
			tenant := tenantID
			if j%2 == 0 {
				tenant = uuid.NewString()
			}
			err := repo.User().Save(ctx, &domain.User{ID: fmt.Sprintf("u-%04d", j), TenantID: tenant})
			require.NoError(b, err)
		}
		b.StartTimer()

		_, err := projection.HandleTenantDeleted(ctx, domain.TenantDeleted{ID: tenantID})
		require.NoError(b, err)
	}
}
