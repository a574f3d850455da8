package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/repository"
)

const scanBatchSize = 500

// record is one row of the shared key/value table.
type record struct {
	Key       string    `gorm:"column:record_key;primaryKey;type:text"`
	Value     []byte    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"type:timestamp with time zone;default:CURRENT_TIMESTAMP"`
}

func (record) TableName() string {
	return "records"
}

// Store is a RecordStore backed by a single postgres table. Point reads go to
// the writer so a create directly followed by a read sees its own write; scans
// go to the reader.
type Store struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewStore(dbConnections *config.DatabaseConnections) *Store {
	return &Store{
		writerDB: dbConnections.Writer,
		readerDB: dbConnections.Reader,
	}
}

// Migrate creates the records table if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.writerDB.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("failed to migrate records table: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var rec record
	if err := s.writerDB.WithContext(ctx).First(&rec, "record_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record %s: %w", key, err)
	}
	return rec.Value, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	rec := record{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	err := s.writerDB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to put record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.writerDB.WithContext(ctx).Delete(&record{}, "record_key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, prefix string) ([]repository.Record, error) {
	var (
		records []repository.Record
		batch   []record
	)

	result := s.readerDB.WithContext(ctx).
		Where("record_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		FindInBatches(&batch, scanBatchSize, func(tx *gorm.DB, _ int) error {
			for _, rec := range batch {
				records = append(records, repository.Record{Key: rec.Key, Value: rec.Value})
			}
			return nil
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to scan records with prefix %s: %w", prefix, result.Error)
	}

	return records, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
