package prereq

import (
	"context"

	"github.com/google/uuid"
)

// ResourceAccessor reads the statement lists of a resource.
type ResourceAccessor interface {
	OutcomesOf(ctx context.Context, r *Resource) ([]*Statement, error)
	PrerequisitesOf(ctx context.Context, r *Resource) ([]*Statement, error)
}

// CatalogQuery finds every resource exposing an outcome with the given
// signature. Implementations must be safe for concurrent readers and should
// return a deterministic order.
type CatalogQuery interface {
	FindResourcesWithOutcomeSignature(ctx context.Context, sig Signature) ([]*Resource, error)
}

// Resolver matches a prerequisite against the catalog.
type Resolver struct {
	catalog     CatalogQuery
	includeSelf bool
}

type ResolverOption func(*Resolver)

// IncludeSelfMatches lets a resource satisfy its own prerequisite. Off by default.
func IncludeSelfMatches(v bool) ResolverOption {
	return func(r *Resolver) { r.includeSelf = v }
}

func NewResolver(catalog CatalogQuery, opts ...ResolverOption) *Resolver {
	r := &Resolver{catalog: catalog}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Matches returns the resources whose outcomes satisfy prereq, in catalog
// order with duplicates removed. No match yields an empty slice, not an error.
func (r *Resolver) Matches(ctx context.Context, prereq *Statement) ([]*Resource, error) {
	if prereq == nil || !prereq.Signature().Valid() {
		st := &SignatureError{Role: RolePrerequisite}
		if prereq != nil {
			st.Noun, st.Verb = prereq.Noun, prereq.Verb
		}
		return nil, st
	}
	found, err := r.catalog.FindResourcesWithOutcomeSignature(ctx, prereq.Signature())
	if err != nil {
		return nil, storeErr("find resources with outcome signature", err)
	}

	out := make([]*Resource, 0, len(found))
	seen := make(map[uuid.UUID]struct{}, len(found))
	for _, res := range found {
		if res == nil {
			continue
		}
		if !r.includeSelf && res.ID == prereq.ResourceID {
			continue
		}
		if _, dup := seen[res.ID]; dup {
			continue
		}
		seen[res.ID] = struct{}{}
		out = append(out, res)
	}
	return out, nil
}
