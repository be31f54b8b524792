package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/platform/envutil"
)

var DefaultCORSOrigins = []string{
	"http://localhost:80",
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:80",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORSOriginsFromEnv reads CORS_ALLOW_ORIGINS (comma-separated).
func CORSOriginsFromEnv() []string {
	return envutil.List("CORS_ALLOW_ORIGINS", DefaultCORSOrigins)
}

func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = DefaultCORSOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", "X-Request-ID", "traceparent"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
	})
}
