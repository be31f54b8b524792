package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// DefaultSQLitePath keeps a single shared in-memory database per process.
const DefaultSQLitePath = "file::memory:?cache=shared"

type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQLiteService(logg *logger.Logger, path string) (*SQLiteService, error) {
	if path == "" {
		path = DefaultSQLitePath
	}
	serviceLog := logg.With("service", "SQLiteService")

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	// A shared-cache memory DB disappears when its last connection closes.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &SQLiteService{db: db, log: serviceLog}, nil
}

func (s *SQLiteService) DB() *gorm.DB { return s.db }

func (s *SQLiteService) AutoMigrateAll() error {
	s.log.Info("Running SQLite auto migration")
	return AutoMigrateAll(s.db)
}

// Service is what the app needs from either backend.
type Service interface {
	DB() *gorm.DB
	AutoMigrateAll() error
}

// Open selects the backend by driver name ("postgres" or "sqlite").
func Open(logg *logger.Logger, driver, sqlitePath string) (Service, error) {
	switch driver {
	case "", "postgres", "postgresql":
		return NewPostgresService(logg, PostgresConfigFromEnv())
	case "sqlite", "sqlite3":
		return NewSQLiteService(logg, sqlitePath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}
