package graph

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/platform/neo4jdb"
)

type stubLoader struct {
	byID map[uuid.UUID]*types.Resource
}

func (l stubLoader) ResourcesByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Resource, error) {
	out := make([]*types.Resource, 0, len(ids))
	for _, id := range ids {
		if r, ok := l.byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestGraphHelpersNoopWithoutClient(t *testing.T) {
	ctx := context.Background()
	res := &types.Resource{ID: uuid.New(), Title: "A"}
	if err := UpsertResourceStatementGraph(ctx, nil, logger.Nop(), res, nil, nil); err != nil {
		t.Fatalf("upsert without client: %v", err)
	}
	if err := DeleteResourceGraph(ctx, nil, []uuid.UUID{res.ID}); err != nil {
		t.Fatalf("delete without client: %v", err)
	}
	if _, err := FindResourceIDsTeaching(ctx, nil, types.Signature{Noun: "n", Verb: "v"}); err == nil {
		t.Fatal("expected lookup without client to fail")
	}
}

func TestSignatureCatalogNeo4j(t *testing.T) {
	uri := os.Getenv("TEST_NEO4J_URI")
	if uri == "" {
		t.Skip("TEST_NEO4J_URI not set")
	}
	log := logger.Nop()
	client, err := neo4jdb.New(log, neo4jdb.Config{
		URI:      uri,
		User:     os.Getenv("TEST_NEO4J_USER"),
		Password: os.Getenv("TEST_NEO4J_PASSWORD"),
		Timeout:  10 * time.Second,
	})
	if err != nil {
		t.Fatalf("neo4j connect: %v", err)
	}
	ctx := context.Background()
	t.Cleanup(func() { _ = client.Close(ctx) })

	noun := "graph-test-" + uuid.NewString()
	sig := types.Signature{Noun: noun, Verb: "understand"}
	t0 := time.Now().UTC()
	older := &types.Resource{ID: uuid.New(), Title: "older", CreatedAt: t0}
	newer := &types.Resource{ID: uuid.New(), Title: "newer", CreatedAt: t0.Add(time.Second)}
	t.Cleanup(func() { _ = DeleteResourceGraph(ctx, client, []uuid.UUID{older.ID, newer.ID}) })

	teach := func(r *types.Resource) []*types.LearningStatement {
		return []*types.LearningStatement{{ID: uuid.New(), ResourceID: r.ID, Role: types.StatementRoleOutcome, Noun: sig.Noun, Verb: sig.Verb}}
	}
	for _, r := range []*types.Resource{newer, older} {
		if err := UpsertResourceStatementGraph(ctx, client, log, r, teach(r), nil); err != nil {
			t.Fatalf("upsert %s: %v", r.Title, err)
		}
	}

	cat := NewNeo4jSignatureCatalog(client, stubLoader{byID: map[uuid.UUID]*types.Resource{older.ID: older, newer.ID: newer}}, log)
	got, err := cat.FindResourcesWithOutcomeSignature(ctx, sig)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 2 || got[0].ID != older.ID || got[1].ID != newer.ID {
		t.Fatalf("expected [older newer], got %v", got)
	}

	// Re-upserting without outcomes removes the TEACHES edge.
	if err := UpsertResourceStatementGraph(ctx, client, log, older, nil, nil); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	got, err = cat.FindResourcesWithOutcomeSignature(ctx, sig)
	if err != nil || len(got) != 1 || got[0].ID != newer.ID {
		t.Fatalf("after edge removal: err=%v got=%v", err, got)
	}
}
