package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/learnpath-backend/internal/http/handlers"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type Handlers struct {
	Resource *httpH.ResourceHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Resource: httpH.NewResourceHandler(log, serviceset.Catalog),
		Health: httpH.NewHealthHandler(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
}
