package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default service names. A service name also namespaces the keys the service
// owns in the record store.
const (
	TenantServiceName = "tenant-service"
	UserServiceName   = "user-service"
)

const (
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"

	BusBackendSQS   = "sqs"
	BusBackendRedis = "redis"
)

type Config struct {
	ServiceName        string        `json:"service_name"`
	ServerPort         int           `json:"server_port"`
	StoreBackend       string        `json:"store_backend"`
	BusBackend         string        `json:"bus_backend"`
	EventAuthSecret    string        `json:"event_auth_secret"`
	JWTExpirationHours int           `json:"jwt_expiration_hours"`
	GlobalRateLimit    int           `json:"global_rate_limit"`
	RequestTimeout     time.Duration `json:"request_timeout"`
	CascadeConcurrency int           `json:"cascade_concurrency"`
	WorkerCount        int           `json:"worker_count"`
	PollInterval       time.Duration `json:"poll_interval"`
}

// Load reads the service configuration from the environment. serviceName and
// port are the defaults of the binary being started.
func Load(serviceName string, port int) (*Config, error) {
	cfg := &Config{
		ServiceName:        getEnvWithDefault("SERVICE_NAME", serviceName),
		ServerPort:         getEnvIntWithDefault("SERVER_PORT", port),
		StoreBackend:       getEnvWithDefault("STORE_BACKEND", StoreBackendRedis),
		BusBackend:         getEnvWithDefault("BUS_BACKEND", BusBackendSQS),
		EventAuthSecret:    os.Getenv("EVENT_AUTH_SECRET"),
		JWTExpirationHours: getEnvIntWithDefault("JWT_EXPIRATION_HOURS", 24),
		GlobalRateLimit:    getEnvIntWithDefault("GLOBAL_RATE_LIMIT", 10000), // requests per minute per IP
		RequestTimeout:     getEnvDurationWithDefault("REQUEST_TIMEOUT", 10*time.Second),
		CascadeConcurrency: getEnvIntWithDefault("CASCADE_CONCURRENCY", 8),
		WorkerCount:        getEnvIntWithDefault("WORKER_COUNT", 1),
		PollInterval:       getEnvDurationWithDefault("POLL_INTERVAL", time.Second),
	}

	switch cfg.StoreBackend {
	case StoreBackendRedis, StoreBackendPostgres:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.BusBackend {
	case BusBackendSQS, BusBackendRedis:
	default:
		return nil, fmt.Errorf("unknown BUS_BACKEND %q", cfg.BusBackend)
	}

	if cfg.ServerPort <= 0 {
		return nil, fmt.Errorf("invalid SERVER_PORT %d", cfg.ServerPort)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDurationWithDefault returns environment variable as duration or default if not set
func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
