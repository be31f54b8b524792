package app

import (
	server "github.com/yungbote/learnpath-backend/internal/http"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlerset Handlers) *server.Server {
	log.Info("Wiring router...")
	return server.NewServer(server.RouterConfig{
		Log:             log,
		ServiceName:     cfg.ServiceName,
		CORSOrigins:     cfg.CORSOrigins,
		ResourceHandler: handlerset.Resource,
		HealthHandler:   handlerset.Health,
	})
}
