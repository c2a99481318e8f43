package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/salonkeep/salonkeep/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DatabaseService implements the Service interface
type DatabaseService struct {
	config *config.DatabaseConfig
	logger Logger
	db     *gorm.DB
}

// NewDatabaseService creates a new database service instance
func NewDatabaseService(config *config.DatabaseConfig, logger Logger) *DatabaseService {
	return &DatabaseService{
		config: config,
		logger: logger,
	}
}

// Connect opens the store file, creating it (and its directory) on first
// run. The connection pool is capped at a single open connection so that
// every statement is serialized through the same handle the backup
// quiescence argument relies on.
func (s *DatabaseService) Connect() (*gorm.DB, error) {
	s.logger.LogInfo("Opening database", map[string]interface{}{
		"path": s.config.Path,
	})

	if err := os.MkdirAll(filepath.Dir(s.config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d", s.config.Path, s.config.BusyTimeoutMs)

	gormConfig := &gorm.Config{
		Logger: NewGormLogger(s.logger, 200*time.Millisecond),
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %v", err)
	}

	// Single writer: the whole application shares one connection
	sqlDB.SetMaxOpenConns(1)

	// The migration metadata table must exist before the runner reads it
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("failed to initialize migration tracking: %v", err)
	}

	s.db = db
	return db, nil
}

// Close closes the database connection
func (s *DatabaseService) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %v", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %v", err)
		}
	}
	return nil
}
