package catalog

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
)

// EngineStore adapts the repos to the read-only accessor and catalog query
// the prerequisite engine consumes. Every call is a fresh read; the store
// never writes.
type EngineStore struct {
	resources  ResourceRepo
	statements LearningStatementRepo
}

func NewEngineStore(resources ResourceRepo, statements LearningStatementRepo) *EngineStore {
	return &EngineStore{resources: resources, statements: statements}
}

func (s *EngineStore) OutcomesOf(ctx context.Context, r *types.Resource) ([]*types.LearningStatement, error) {
	return s.statementsOf(ctx, r, types.StatementRoleOutcome)
}

func (s *EngineStore) PrerequisitesOf(ctx context.Context, r *types.Resource) ([]*types.LearningStatement, error) {
	return s.statementsOf(ctx, r, types.StatementRolePrerequisite)
}

func (s *EngineStore) statementsOf(ctx context.Context, r *types.Resource, role string) ([]*types.LearningStatement, error) {
	if r == nil || r.ID == uuid.Nil {
		return nil, nil
	}
	return s.statements.ListByResourceIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{r.ID}, role)
}

func (s *EngineStore) FindResourcesWithOutcomeSignature(ctx context.Context, sig types.Signature) ([]*types.Resource, error) {
	dbc := dbctx.Context{Ctx: ctx}
	ids, err := s.statements.FindResourceIDsWithSignature(dbc, types.StatementRoleOutcome, sig)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*types.Resource{}, nil
	}
	return s.resources.GetByIDs(dbc, ids)
}

// ResourcesByIDs loads resources in id order; used by alternative catalog
// backends that only know ids.
func (s *EngineStore) ResourcesByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.Resource, error) {
	if len(ids) == 0 {
		return []*types.Resource{}, nil
	}
	return s.resources.GetByIDs(dbctx.Context{Ctx: ctx}, ids)
}
