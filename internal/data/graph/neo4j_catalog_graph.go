package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/platform/neo4jdb"
)

// UpsertResourceStatementGraph mirrors one resource and its statements into
// Neo4j as (:Resource)-[:TEACHES|REQUIRES]->(:Signature). Existing edges of
// the resource are replaced so edits and removals are reflected.
func UpsertResourceStatementGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, resource *types.Resource, outcomes, prerequisites []*types.LearningStatement) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if resource == nil || resource.ID == uuid.Nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	edgeRows := make([]map[string]any, 0, len(outcomes)+len(prerequisites))
	appendRows := func(rel string, list []*types.LearningStatement) {
		for _, st := range list {
			if st == nil || !st.Signature().Valid() {
				continue
			}
			edgeRows = append(edgeRows, map[string]any{
				"rel":          rel,
				"statement_id": st.ID.String(),
				"noun":         st.Noun,
				"verb":         st.Verb,
				"position":     int64(st.Position),
			})
		}
	}
	appendRows("TEACHES", outcomes)
	appendRows("REQUIRES", prerequisites)

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	// Best-effort schema init.
	for _, stmt := range []string{
		`CREATE CONSTRAINT resource_id_unique IF NOT EXISTS FOR (r:Resource) REQUIRE r.id IS UNIQUE`,
		`CREATE INDEX signature_noun_verb IF NOT EXISTS FOR (s:Signature) ON (s.noun, s.verb)`,
	} {
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
		} else {
			_, _ = res.Consume(ctx)
		}
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MERGE (r:Resource {id: $id})
SET r.title = $title,
    r.kind = $kind,
    r.created_at = $created_at
WITH r
OPTIONAL MATCH (r)-[e:TEACHES|REQUIRES]->(:Signature)
DELETE e
`, map[string]any{
			"id":         resource.ID.String(),
			"title":      resource.Title,
			"kind":       resource.Kind,
			"created_at": resource.CreatedAt.UTC().UnixNano(),
		})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		if len(edgeRows) == 0 {
			return nil, nil
		}

		for _, rel := range []string{"TEACHES", "REQUIRES"} {
			rows := make([]map[string]any, 0, len(edgeRows))
			for _, row := range edgeRows {
				if row["rel"] == rel {
					rows = append(rows, row)
				}
			}
			if len(rows) == 0 {
				continue
			}
			// Relationship types cannot be parameterized.
			res, err := tx.Run(ctx, fmt.Sprintf(`
UNWIND $rows AS row
MATCH (r:Resource {id: $id})
MERGE (s:Signature {noun: row.noun, verb: row.verb})
MERGE (r)-[e:%s {statement_id: row.statement_id}]->(s)
SET e.position = row.position
`, rel), map[string]any{"id": resource.ID.String(), "rows": rows})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// DeleteResourceGraph removes the resource node and its edges. Signature
// nodes are shared and left in place.
func DeleteResourceGraph(ctx context.Context, client *neo4jdb.Client, ids []uuid.UUID) error {
	if client == nil || client.Driver == nil || len(ids) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	idStrs := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != uuid.Nil {
			idStrs = append(idStrs, id.String())
		}
	}
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (r:Resource)
WHERE r.id IN $ids
DETACH DELETE r
`, map[string]any{"ids": idStrs})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

// FindResourceIDsTeaching returns the ids of resources with a TEACHES edge to
// the signature, oldest first.
func FindResourceIDsTeaching(ctx context.Context, client *neo4jdb.Client, sig types.Signature) ([]uuid.UUID, error) {
	if client == nil || client.Driver == nil {
		return nil, fmt.Errorf("neo4j client not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (r:Resource)-[:TEACHES]->(s:Signature {noun: $noun, verb: $verb})
RETURN DISTINCT r.id AS id, r.created_at AS created_at
ORDER BY created_at ASC, id ASC
`, map[string]any{"noun": sig.Noun, "verb": sig.Verb})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, 0, len(records))
		for _, rec := range records {
			raw, ok := rec.Get("id")
			if !ok {
				continue
			}
			s, _ := raw.(string)
			id, err := uuid.Parse(s)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	ids, _ := out.([]uuid.UUID)
	return ids, nil
}

// ResourceLoader hydrates resources by id in the given order.
type ResourceLoader interface {
	ResourcesByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Resource, error)
}

// Neo4jSignatureCatalog answers outcome-signature lookups from the graph and
// hydrates the hits from the relational store.
type Neo4jSignatureCatalog struct {
	client *neo4jdb.Client
	loader ResourceLoader
	log    *logger.Logger
}

func NewNeo4jSignatureCatalog(client *neo4jdb.Client, loader ResourceLoader, log *logger.Logger) *Neo4jSignatureCatalog {
	return &Neo4jSignatureCatalog{client: client, loader: loader, log: log.With("catalog", "Neo4jSignatureCatalog")}
}

func (c *Neo4jSignatureCatalog) FindResourcesWithOutcomeSignature(ctx context.Context, sig types.Signature) ([]*types.Resource, error) {
	ids, err := FindResourceIDsTeaching(ctx, c.client, sig)
	if err != nil {
		c.log.Warn("neo4j signature lookup failed", "signature", sig.String(), "error", err)
		return nil, err
	}
	if len(ids) == 0 {
		return []*types.Resource{}, nil
	}
	// Soft-deleted resources drop out here because the loader skips them.
	return c.loader.ResourcesByIDs(ctx, ids)
}
