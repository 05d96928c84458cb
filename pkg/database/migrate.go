package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded PostgreSQL migrations
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("database migration is dirty", zap.Uint("version", version))
	} else {
		logger.Info("database migrations applied", zap.Uint("version", version))
	}

	return nil
}

// partialIndexes hold the single-open-row invariants. gorm tags cannot
// express them portably, so they are created with raw SQL.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_shifts_active_worker ON shifts (worker_id) WHERE status = 'active'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_work_item_events_open_worker ON work_item_events (worker_id) WHERE ended_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_stoppage_events_open_worker ON stoppage_events (worker_id) WHERE ended_at IS NULL`,
}

// AutoMigrate builds the schema from the models. Used for SQLite where the
// PostgreSQL migrations do not apply.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Worker{},
		&model.Shift{},
		&model.Module{},
		&model.Component{},
		&model.Order{},
		&model.WorkItemEvent{},
		&model.StoppageType{},
		&model.StoppageEvent{},
		&model.Defect{},
		&model.AuditEntry{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create partial index: %w", err)
		}
	}
	return nil
}

// Migrate picks the schema strategy for the configured driver
func Migrate(db *gorm.DB, driver string, logger *zap.Logger) error {
	if driver == "sqlite" {
		if err := AutoMigrate(db); err != nil {
			return err
		}
		logger.Info("sqlite schema synchronized")
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return RunMigrations(sqlDB, logger)
}
