package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"feedback-board-api/internal/domain"
)

// AutoMigrate creates or updates every table the service owns
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// SafeAutoMigrate migrates model by model, logging whether each table existed
func SafeAutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()
	models := domain.Models()

	logger.Info("Starting safe auto-migration", zap.Int("total_models", len(models)))

	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table
		existed := migrator.HasTable(model)

		if err := db.AutoMigrate(model); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("table", table),
				zap.Bool("table_existed", existed),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate table %s: %w", table, err)
		}

		logger.Info("Successfully migrated table",
			zap.String("table", table),
			zap.Bool("was_existing", existed),
		)
	}

	return nil
}

// SafeAutoMigrateWithRetry retries SafeAutoMigrate with linear backoff
func SafeAutoMigrateWithRetry(db *gorm.DB, logger *zap.Logger, maxRetries int) error {
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = SafeAutoMigrate(db, logger)
		if err == nil {
			return nil
		}

		if attempt < maxRetries {
			backoff := time.Duration(attempt) * time.Second
			logger.Warn("Migration attempt failed, retrying...",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			time.Sleep(backoff)
		}
	}

	return fmt.Errorf("migration failed after %d attempts: %w", maxRetries, err)
}
