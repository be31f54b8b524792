package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/learnpath-backend/internal/http/handlers"
	httpMW "github.com/yungbote/learnpath-backend/internal/http/middleware"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	ResourceHandler *httpH.ResourceHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "learnpath"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachRequestContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Resources
		if cfg.ResourceHandler != nil {
			api.GET("/resources", cfg.ResourceHandler.ListResources)
			api.POST("/resources", cfg.ResourceHandler.CreateResource)
			api.POST("/resources/check-title", cfg.ResourceHandler.CheckTitle)
			api.GET("/resources/:id", cfg.ResourceHandler.GetResource)
			api.PUT("/resources/:id", cfg.ResourceHandler.UpdateResource)
			api.DELETE("/resources/:id", cfg.ResourceHandler.DeleteResource)
			api.GET("/resources/:id/prerequisites", cfg.ResourceHandler.GetPrerequisites)
			api.GET("/resources/:id/learning-tree", cfg.ResourceHandler.GetLearningTree)
		}
	}

	return r
}
