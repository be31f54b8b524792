package app

import (
	"strings"

	"github.com/yungbote/learnpath-backend/internal/data/db"
	"github.com/yungbote/learnpath-backend/internal/http/middleware"
	"github.com/yungbote/learnpath-backend/internal/platform/envutil"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

const (
	CatalogBackendSQL   = "sql"
	CatalogBackendNeo4j = "neo4j"
)

type Config struct {
	LogMode    string
	HTTPAddr   string
	DBDriver   string
	SQLitePath string

	// CatalogBackend selects the store answering outcome-signature lookups.
	CatalogBackend     string
	IncludeSelfMatches bool
	TreeConcurrency    int

	CORSOrigins []string
	ServiceName string
	Environment string
	Version     string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		LogMode:            envutil.String("LOG_MODE", "development"),
		HTTPAddr:           envutil.String("HTTP_ADDR", ":8080"),
		DBDriver:           strings.ToLower(envutil.String("DB_DRIVER", "postgres")),
		SQLitePath:         envutil.String("SQLITE_PATH", db.DefaultSQLitePath),
		CatalogBackend:     strings.ToLower(envutil.String("CATALOG_QUERY_BACKEND", CatalogBackendSQL)),
		IncludeSelfMatches: envutil.Bool("PREREQ_INCLUDE_SELF_MATCHES", false),
		TreeConcurrency:    envutil.Int("PREREQ_TREE_CONCURRENCY", services.DefaultTreeConcurrency),
		CORSOrigins:        middleware.CORSOriginsFromEnv(),
		ServiceName:        envutil.String("OTEL_SERVICE_NAME", "learnpath"),
		Environment:        envutil.String("APP_ENV", "development"),
		Version:            envutil.String("APP_VERSION", "dev"),
	}
	if cfg.CatalogBackend != CatalogBackendSQL && cfg.CatalogBackend != CatalogBackendNeo4j {
		log.Warn("unknown CATALOG_QUERY_BACKEND; using sql", "value", cfg.CatalogBackend)
		cfg.CatalogBackend = CatalogBackendSQL
	}
	if cfg.TreeConcurrency <= 0 {
		cfg.TreeConcurrency = services.DefaultTreeConcurrency
	}
	return cfg
}
