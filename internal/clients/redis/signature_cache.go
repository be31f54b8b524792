package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/envutil"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

const (
	DefaultSignatureCacheTTL = 5 * time.Minute
	DefaultKeyPrefix         = "learnpath:sig:"
)

// SignatureQuery is the catalog lookup being cached.
type SignatureQuery interface {
	FindResourcesWithOutcomeSignature(ctx context.Context, sig types.Signature) ([]*types.Resource, error)
}

// ResourceLoader hydrates cached ids, skipping ids that no longer resolve.
type ResourceLoader interface {
	ResourcesByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Resource, error)
}

// SignatureCache is a read-through cache of outcome-signature lookups. Only
// the matching resource ids are cached; resources are always reloaded so
// edits to titles or deletions are visible immediately. Redis failures fall
// back to the underlying query.
type SignatureCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	inner  SignatureQuery
	loader ResourceLoader
	ttl    time.Duration
	prefix string
}

func NewSignatureCache(log *logger.Logger, rdb *goredis.Client, inner SignatureQuery, loader ResourceLoader, ttl time.Duration, prefix string) *SignatureCache {
	if ttl <= 0 {
		ttl = DefaultSignatureCacheTTL
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &SignatureCache{
		log:    log.With("service", "RedisSignatureCache"),
		rdb:    rdb,
		inner:  inner,
		loader: loader,
		ttl:    ttl,
		prefix: prefix,
	}
}

// NewSignatureCacheFromEnv reads REDIS_SIGNATURE_CACHE_TTL_SECONDS and
// REDIS_KEY_PREFIX. A nil rdb yields a pass-through cache.
func NewSignatureCacheFromEnv(log *logger.Logger, rdb *goredis.Client, inner SignatureQuery, loader ResourceLoader) *SignatureCache {
	return NewSignatureCache(
		log,
		rdb,
		inner,
		loader,
		envutil.Seconds("REDIS_SIGNATURE_CACHE_TTL_SECONDS", DefaultSignatureCacheTTL),
		envutil.String("REDIS_KEY_PREFIX", DefaultKeyPrefix),
	)
}

func (c *SignatureCache) Enabled() bool { return c != nil && c.rdb != nil }

func (c *SignatureCache) key(sig types.Signature) string {
	sum := sha256.Sum256([]byte(sig.Noun + "\x00" + sig.Verb))
	return c.prefix + hex.EncodeToString(sum[:16])
}

func (c *SignatureCache) FindResourcesWithOutcomeSignature(ctx context.Context, sig types.Signature) ([]*types.Resource, error) {
	if !c.Enabled() {
		return c.inner.FindResourcesWithOutcomeSignature(ctx, sig)
	}
	key := c.key(sig)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ids []uuid.UUID
		if jerr := json.Unmarshal(raw, &ids); jerr == nil {
			if len(ids) == 0 {
				return []*types.Resource{}, nil
			}
			return c.loader.ResourcesByIDs(ctx, ids)
		}
		c.log.Warn("signature cache entry corrupt; refreshing", "key", key)
	case errors.Is(err, goredis.Nil):
	default:
		c.log.Warn("signature cache read failed", "key", key, "error", err)
	}

	found, err := c.inner.FindResourcesWithOutcomeSignature(ctx, sig)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(found))
	for _, r := range found {
		if r != nil {
			ids = append(ids, r.ID)
		}
	}
	if payload, jerr := json.Marshal(ids); jerr == nil {
		if serr := c.rdb.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
			c.log.Warn("signature cache write failed", "key", key, "error", serr)
		}
	}
	return found, nil
}

// Invalidate drops cached lookups for the given signatures.
func (c *SignatureCache) Invalidate(ctx context.Context, sigs ...types.Signature) error {
	if !c.Enabled() || len(sigs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(sigs))
	seen := make(map[string]struct{}, len(sigs))
	for _, sig := range sigs {
		k := c.key(sig)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
