package runlog

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"ongsys-sync/core/reconcile"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is one finished sync run. The table is an audit trail for
// operators; reconciliation itself never reads it, idempotency rests
// solely on the destination system's state.
type Record struct {
	ID         uint      `gorm:"primaryKey"`
	RunID      string    `gorm:"size:36;index"`
	Job        string    `gorm:"size:40;index"`
	StartedAt  time.Time `gorm:"index"`
	FinishedAt time.Time

	Extracted int
	Declared  int
	Partial   bool

	Created     int
	Updated     int
	Unchanged   int
	Skipped     int
	Failed      int
	Unconfirmed int
}

// TableName fixes the table name independent of gorm pluralization.
func (Record) TableName() string { return "sync_runs" }

// Store persists run records.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an existing gorm connection, used by tests.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Connect opens the run-history database and migrates the schema.
func Connect(cfg Config) (*Store, error) {
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to run-history database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping run-history database: %w", err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate run-history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save writes the final counters of a run. Persistence problems must not
// fail the sync, so callers log the returned error and move on.
func (s *Store) Save(ctx context.Context, c *reconcile.Counters) error {
	rec := Record{
		RunID:       c.RunID,
		Job:         c.Job,
		StartedAt:   c.StartedAt,
		FinishedAt:  time.Now(),
		Extracted:   c.Extracted,
		Declared:    c.Declared,
		Partial:     c.Partial,
		Created:     c.Created,
		Updated:     c.Updated,
		Unchanged:   c.Unchanged,
		Skipped:     c.Skipped,
		Failed:      c.Failed,
		Unconfirmed: c.Unconfirmed,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}
