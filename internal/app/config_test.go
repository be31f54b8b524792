package app

import (
	"testing"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "DB_DRIVER", "CATALOG_QUERY_BACKEND", "PREREQ_INCLUDE_SELF_MATCHES", "PREREQ_TREE_CONCURRENCY"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.Nop())
	if cfg.HTTPAddr != ":8080" || cfg.DBDriver != "postgres" || cfg.CatalogBackend != CatalogBackendSQL {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.IncludeSelfMatches {
		t.Fatal("self matches should be excluded by default")
	}
	if cfg.TreeConcurrency != services.DefaultTreeConcurrency {
		t.Fatalf("tree concurrency = %d", cfg.TreeConcurrency)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CATALOG_QUERY_BACKEND", "graphql")
	t.Setenv("PREREQ_INCLUDE_SELF_MATCHES", "true")
	t.Setenv("PREREQ_TREE_CONCURRENCY", "-3")
	cfg := LoadConfig(logger.Nop())
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("driver = %q", cfg.DBDriver)
	}
	if cfg.CatalogBackend != CatalogBackendSQL {
		t.Fatalf("unknown backend should fall back to sql, got %q", cfg.CatalogBackend)
	}
	if !cfg.IncludeSelfMatches {
		t.Fatal("expected self matches enabled")
	}
	if cfg.TreeConcurrency != services.DefaultTreeConcurrency {
		t.Fatalf("non-positive concurrency should use the default, got %d", cfg.TreeConcurrency)
	}
}
