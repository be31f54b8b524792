package db

import (
	"fmt"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	// Order matters: statements reference resources, resources reference providers.
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate catalog: %w", err)
	}
	return nil
}
