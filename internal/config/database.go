package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DatabaseConfig addresses one postgres endpoint of the records table. The
// writer takes every point read and write, the reader serves scans.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// loadDatabaseConfig reads POSTGRES_<role>_* variables.
func loadDatabaseConfig(role string) *DatabaseConfig {
	prefix := "POSTGRES_" + role + "_"
	return &DatabaseConfig{
		Host:     getEnvWithDefault(prefix+"HOST", "localhost"),
		Port:     getEnvWithDefault(prefix+"PORT", "5432"),
		User:     getEnvWithDefault(prefix+"USER", "postgres"),
		Password: getEnvWithDefault(prefix+"PASSWORD", ""),
		DBName:   getEnvWithDefault(prefix+"DB_NAME", "tenant_user_sync"),
		SSLMode:  getEnvWithDefault(prefix+"SSL_MODE", "disable"),
	}
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type ConnectionPoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func loadConnectionPoolConfig() *ConnectionPoolConfig {
	return &ConnectionPoolConfig{
		MaxOpenConns:    getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 50),
		MaxIdleConns:    getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime: getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", time.Hour),
	}
}

func (c *DatabaseConfig) open(pool *ConnectionPoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s:%s: %w", c.Host, c.Port, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return db, nil
}

// DatabaseConnections is the writer/reader pair behind the postgres store.
type DatabaseConnections struct {
	Writer *gorm.DB
	Reader *gorm.DB
}

func NewDatabaseConnections() (*DatabaseConnections, error) {
	pool := loadConnectionPoolConfig()

	writer, err := loadDatabaseConfig("WRITER").open(pool)
	if err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}

	reader, err := loadDatabaseConfig("READER").open(pool)
	if err != nil {
		dc := &DatabaseConnections{Writer: writer}
		return nil, multierr.Append(fmt.Errorf("reader: %w", err), dc.Close())
	}

	return &DatabaseConnections{Writer: writer, Reader: reader}, nil
}

func (dc *DatabaseConnections) Close() error {
	var err error
	for _, db := range []*gorm.DB{dc.Writer, dc.Reader} {
		if db == nil {
			continue
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			err = multierr.Append(err, dbErr)
			continue
		}
		err = multierr.Append(err, sqlDB.Close())
	}
	return err
}
