package prereq

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func sig(noun, verb string) Signature { return Signature{Noun: noun, Verb: verb} }

// memCatalog is a read-only in-memory catalog returning resources in
// insertion order.
type memCatalog struct {
	mu         sync.RWMutex
	resources  []*Resource
	outcomes   map[uuid.UUID][]*Statement
	prereqs    map[uuid.UUID][]*Statement
	failFind   error
	failPrereq map[uuid.UUID]error
	findCalls  int
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		outcomes:   make(map[uuid.UUID][]*Statement),
		prereqs:    make(map[uuid.UUID][]*Statement),
		failPrereq: make(map[uuid.UUID]error),
	}
}

func (m *memCatalog) add(title string, outcomes, prereqs []Signature) *Resource {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &Resource{ID: uuid.New(), Title: title, Kind: "material"}
	m.resources = append(m.resources, r)
	for i, s := range outcomes {
		m.outcomes[r.ID] = append(m.outcomes[r.ID], newStatement(r.ID, RoleOutcome, s, i))
	}
	for i, s := range prereqs {
		m.prereqs[r.ID] = append(m.prereqs[r.ID], newStatement(r.ID, RolePrerequisite, s, i))
	}
	return r
}

func newStatement(resourceID uuid.UUID, role Role, s Signature, i int) *Statement {
	return &Statement{
		ID:         uuid.New(),
		ResourceID: resourceID,
		Role:       string(role),
		Noun:       s.Noun,
		Verb:       s.Verb,
		Position:   i,
		CreatedAt:  baseTime.Add(time.Duration(i) * time.Minute),
	}
}

func (m *memCatalog) OutcomesOf(_ context.Context, r *Resource) ([]*Statement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.outcomes[r.ID], nil
}

func (m *memCatalog) PrerequisitesOf(_ context.Context, r *Resource) ([]*Statement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failPrereq[r.ID]; err != nil {
		return nil, err
	}
	return m.prereqs[r.ID], nil
}

func (m *memCatalog) FindResourcesWithOutcomeSignature(_ context.Context, s Signature) ([]*Resource, error) {
	m.mu.Lock()
	m.findCalls++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failFind != nil {
		return nil, m.failFind
	}
	var out []*Resource
	for _, r := range m.resources {
		for _, o := range m.outcomes[r.ID] {
			if o.Signature() == s {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (m *memCatalog) builder(opts ...ResolverOption) *Builder {
	return NewBuilder(m, NewResolver(m, opts...))
}
