package persistence

import (
	"fmt"

	"github.com/vendite/backend/internal/domain/sales"
	"github.com/vendite/backend/internal/domain/shared"
	"github.com/vendite/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the store connection. It is opened once at startup and
// closed at shutdown; every exit path must release it.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the record store with a silent logger.
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithLogger(cfg, gormlogger.Default.LogMode(gormlogger.Silent))
}

// NewDatabaseWithLogger opens the record store with a custom GORM logger.
// A store that cannot be opened is a STORAGE_UNAVAILABLE error.
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLog gormlogger.Interface) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLog,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, storageUnavailable(fmt.Sprintf("failed to open database: %v", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, storageUnavailable(fmt.Sprintf("failed to get underlying sql.DB: %v", err))
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, storageUnavailable(fmt.Sprintf("failed to ping database: %v", err))
	}

	return &Database{DB: db}, nil
}

func openDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	default:
		return nil, storageUnavailable(fmt.Sprintf("unsupported database driver %q", cfg.Driver))
	}
}

// Migrate ensures the vendite table exists with the expected schema.
// It is idempotent: re-running against an existing table is a no-op.
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(&sales.SalesRecord{}); err != nil {
		return storageUnavailable(fmt.Sprintf("failed to migrate schema: %v", err))
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

func storageUnavailable(message string) *shared.DomainError {
	return shared.NewDomainError(shared.CodeStorageUnavailable, message)
}
