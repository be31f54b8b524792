package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/learnpath-backend/internal/clients/redis"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/platform/neo4jdb"
)

// Clients holds the optional external collaborators. Nil fields are disabled.
type Clients struct {
	Neo4j *neo4jdb.Client
	Redis *goredis.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	var out Clients

	graph, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		if cfg.CatalogBackend == CatalogBackendNeo4j {
			return out, fmt.Errorf("init neo4j: %w", err)
		}
		log.Warn("neo4j unavailable; graph sync disabled", "error", err)
	}
	out.Neo4j = graph
	if cfg.CatalogBackend == CatalogBackendNeo4j && !out.Neo4j.Enabled() {
		return out, fmt.Errorf("CATALOG_QUERY_BACKEND=neo4j requires NEO4J_URI")
	}

	rdb, err := redis.NewClientFromEnv(log)
	if err != nil {
		log.Warn("redis unavailable; signature cache disabled", "error", err)
	}
	out.Redis = rdb
	return out, nil
}

func (c Clients) Close(ctx context.Context) {
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(ctx)
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
