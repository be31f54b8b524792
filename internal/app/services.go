package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/clients/redis"
	"github.com/yungbote/learnpath-backend/internal/data/graph"
	"github.com/yungbote/learnpath-backend/internal/modules/learning/prereq"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type Services struct {
	Catalog services.CatalogService
}

// wireServices assembles the catalog query stack: the SQL or Neo4j lookup,
// optionally behind the Redis cache, feeding the prerequisite engine.
func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	var query redis.SignatureQuery = reposet.EngineStore
	if cfg.CatalogBackend == CatalogBackendNeo4j {
		query = graph.NewNeo4jSignatureCatalog(clients.Neo4j, reposet.EngineStore, log)
	}
	cache := redis.NewSignatureCacheFromEnv(log, clients.Redis, query, reposet.EngineStore)

	resolver := prereq.NewResolver(cache, prereq.IncludeSelfMatches(cfg.IncludeSelfMatches))
	builder := prereq.NewBuilder(reposet.EngineStore, resolver)

	var invalidator services.SignatureInvalidator
	if cache.Enabled() {
		invalidator = cache
	}
	return Services{
		Catalog: services.NewCatalogService(
			db,
			log,
			reposet.Resource,
			reposet.LearningStatement,
			reposet.ContentProvider,
			builder,
			clients.Neo4j,
			invalidator,
			cfg.TreeConcurrency,
		),
	}
}
