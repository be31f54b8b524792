package prereq

import (
	"context"

	"github.com/google/uuid"
)

const (
	GroupByPrerequisites = "prerequisites"
	GroupByResources     = "resources"
)

// PrerequisiteMatches pairs one prerequisite with the resources satisfying it.
type PrerequisiteMatches struct {
	Prerequisite *Statement
	Resources    []*Resource
}

// MatchMap is keyed by prerequisite and keeps the prerequisite list order.
// Prerequisites without matches are present with an empty resource list.
type MatchMap []PrerequisiteMatches

// ResourcePrerequisites pairs one resource with the prerequisites it satisfies.
type ResourcePrerequisites struct {
	Resource      *Resource
	Prerequisites []*Statement
}

// ResourceGroups is keyed by resource in first-seen order. Only resources
// satisfying at least one prerequisite appear.
type ResourceGroups []ResourcePrerequisites

// Match is a single (prerequisite, resource) pairing.
type Match struct {
	Prerequisite *Statement
	Resource     *Resource
}

// MatchMap resolves each of target's own prerequisites one level deep.
func (b *Builder) MatchMap(ctx context.Context, target *Resource) (MatchMap, error) {
	if target == nil {
		return nil, ErrNilResource
	}
	prereqs, err := b.accessor.PrerequisitesOf(ctx, target)
	if err != nil {
		return nil, storeErr("prerequisites of resource", err)
	}
	out := make(MatchMap, 0, len(prereqs))
	for _, p := range prereqs {
		resources, err := b.resolver.Matches(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, PrerequisiteMatches{Prerequisite: p, Resources: resources})
	}
	return out, nil
}

// Pairs flattens the map into (prerequisite, resource) pairs.
func (m MatchMap) Pairs() []Match {
	var out []Match
	for _, entry := range m {
		for _, r := range entry.Resources {
			out = append(out, Match{Prerequisite: entry.Prerequisite, Resource: r})
		}
	}
	return out
}

// GroupByResource regroups a prerequisite-keyed map by resource. Resource
// order is first-seen; within a resource, prerequisites keep first-seen order.
func GroupByResource(m MatchMap) ResourceGroups {
	out := ResourceGroups{}
	index := make(map[uuid.UUID]int)
	for _, entry := range m {
		for _, r := range entry.Resources {
			if r == nil {
				continue
			}
			i, ok := index[r.ID]
			if !ok {
				i = len(out)
				index[r.ID] = i
				out = append(out, ResourcePrerequisites{Resource: r})
			}
			out[i].Prerequisites = append(out[i].Prerequisites, entry.Prerequisite)
		}
	}
	return out
}

// Flatten inverts the grouping back into a prerequisite-keyed map. Only
// prerequisites with at least one resource can be recovered.
func (g ResourceGroups) Flatten() MatchMap {
	out := MatchMap{}
	index := make(map[any]int)
	for _, group := range g {
		for _, p := range group.Prerequisites {
			key := statementKey(p)
			i, ok := index[key]
			if !ok {
				i = len(out)
				index[key] = i
				out = append(out, PrerequisiteMatches{Prerequisite: p})
			}
			out[i].Resources = append(out[i].Resources, group.Resource)
		}
	}
	return out
}

// statementKey identifies a statement by id, or by pointer before it has one.
func statementKey(st *Statement) any {
	if st != nil && st.ID != uuid.Nil {
		return st.ID
	}
	return st
}
