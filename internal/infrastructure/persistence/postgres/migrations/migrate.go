package migrations

import (
	"fmt"

	"github.com/Rashdan16/Event-sorter/internal/domain/credential"
	"github.com/Rashdan16/Event-sorter/internal/domain/event"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the database schema for all domain models
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")

	models := []interface{}{
		&event.Event{},
		&credential.OAuthCredential{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Info("Database migrations completed")
	return nil
}
