package redis

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type countingQuery struct {
	calls atomic.Int32
	out   []*types.Resource
}

func (q *countingQuery) FindResourcesWithOutcomeSignature(ctx context.Context, sig types.Signature) ([]*types.Resource, error) {
	q.calls.Add(1)
	return q.out, nil
}

type mapLoader map[uuid.UUID]*types.Resource

func (m mapLoader) ResourcesByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Resource, error) {
	out := make([]*types.Resource, 0, len(ids))
	for _, id := range ids {
		if r, ok := m[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestSignatureCachePassThroughWithoutRedis(t *testing.T) {
	r := &types.Resource{ID: uuid.New(), Title: "B"}
	inner := &countingQuery{out: []*types.Resource{r}}
	cache := NewSignatureCache(logger.Nop(), nil, inner, mapLoader{}, 0, "")
	if cache.Enabled() {
		t.Fatal("cache without client should be disabled")
	}
	for i := 0; i < 2; i++ {
		got, err := cache.FindResourcesWithOutcomeSignature(context.Background(), types.Signature{Noun: "n", Verb: "v"})
		if err != nil || len(got) != 1 {
			t.Fatalf("lookup: err=%v got=%v", err, got)
		}
	}
	if inner.calls.Load() != 2 {
		t.Fatalf("expected every call to reach the inner query, got %d", inner.calls.Load())
	}
	if err := cache.Invalidate(context.Background(), types.Signature{Noun: "n", Verb: "v"}); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
}

func TestSignatureCacheKeysAreExact(t *testing.T) {
	cache := NewSignatureCache(logger.Nop(), nil, &countingQuery{}, mapLoader{}, 0, "p:")
	a := cache.key(types.Signature{Noun: "stats", Verb: "understand"})
	b := cache.key(types.Signature{Noun: "Stats", Verb: "understand"})
	c := cache.key(types.Signature{Noun: "statsunderstand", Verb: ""})
	if a == b || a == c {
		t.Fatalf("distinct signatures share a key: %s %s %s", a, b, c)
	}
	if a[:2] != "p:" {
		t.Fatalf("prefix missing: %s", a)
	}
}

func TestSignatureCacheRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb, err := NewClient(addr)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	r := &types.Resource{ID: uuid.New(), Title: "B"}
	inner := &countingQuery{out: []*types.Resource{r}}
	loader := mapLoader{r.ID: r}
	cache := NewSignatureCache(logger.Nop(), rdb, inner, loader, time.Minute, "learnpath:test:"+uuid.NewString()+":")
	ctx := context.Background()
	sig := types.Signature{Noun: "stats", Verb: "understand"}
	t.Cleanup(func() { _ = cache.Invalidate(ctx, sig) })

	for i := 0; i < 3; i++ {
		got, err := cache.FindResourcesWithOutcomeSignature(ctx, sig)
		if err != nil || len(got) != 1 || got[0].ID != r.ID {
			t.Fatalf("lookup %d: err=%v got=%v", i, err, got)
		}
	}
	if inner.calls.Load() != 1 {
		t.Fatalf("expected one inner call, got %d", inner.calls.Load())
	}

	if err := cache.Invalidate(ctx, sig); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := cache.FindResourcesWithOutcomeSignature(ctx, sig); err != nil {
		t.Fatalf("lookup after invalidate: %v", err)
	}
	if inner.calls.Load() != 2 {
		t.Fatalf("expected refresh after invalidate, got %d calls", inner.calls.Load())
	}
}
