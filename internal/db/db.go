package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sales_management/internal/config"
	"sales_management/internal/models"
)

// Open connects to the configured store and sizes the connection pool.
// Every request borrows a pooled connection and returns it when its statement
// or transaction finishes.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	log.Info("connecting to database", zap.String("driver", cfg.Driver), zap.String("name", cfg.Name))
	// The pool connects lazily so the API can come up while the store is down.
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return conn, nil
}

// Close releases the pool.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates every table the API uses.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.Area{},
		&models.CustomerCategory{},
		&models.ProductCategory{},
		&models.Brand{},
		&models.Customer{},
		&models.Product{},
		&models.ProductImage{},
		&models.User{},
		&models.SalesInvoice{},
		&models.SalesItem{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
