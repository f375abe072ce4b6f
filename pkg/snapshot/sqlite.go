package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type record struct {
	Key       string `gorm:"column:key;primaryKey"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

func (record) TableName() string { return "snapshots" }

// SQLiteStore persists snapshots in a single local SQLite file.
type SQLiteStore struct {
	conn *gorm.DB
}

// NewSQLite opens (or creates) the snapshot file at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// DB returns the underlying GORM connection for migrations.
func (s *SQLiteStore) DB() *gorm.DB {
	return s.conn
}

func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	var rec record
	err := s.conn.WithContext(ctx).First(&rec, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load snapshot %q: %w", key, err)
	}
	return rec.Value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, value []byte) error {
	rec := record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.conn.WithContext(ctx).
		Exec(`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			rec.Key, rec.Value, rec.UpdatedAt).
		Error
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := s.conn.WithContext(ctx).Delete(&record{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("delete snapshot %q: %w", key, err)
	}
	return nil
}

// Ping verifies the snapshot file is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
