package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/graph"
	"github.com/yungbote/learnpath-backend/internal/data/repos"
	catalogrepo "github.com/yungbote/learnpath-backend/internal/data/repos/catalog"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/modules/learning/prereq"
	"github.com/yungbote/learnpath-backend/internal/observability"
	pkgerrors "github.com/yungbote/learnpath-backend/internal/pkg/errors"
	"github.com/yungbote/learnpath-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/platform/neo4jdb"
)

const DefaultTreeConcurrency = 4

type CatalogService interface {
	SaveResource(ctx context.Context, in ResourceInput) (*SaveResult, error)
	GetResource(ctx context.Context, id uuid.UUID) (*types.Resource, error)
	FindByTitle(ctx context.Context, title string) (*types.Resource, error)
	ListResources(ctx context.Context, filter repos.ResourceFilter) ([]*types.Resource, error)
	DeleteResource(ctx context.Context, id uuid.UUID) error
	PrerequisiteResources(ctx context.Context, id uuid.UUID, groupedBy string) (*Projection, error)
	LearningTree(ctx context.Context, id uuid.UUID) (*TreeResult, error)
	LearningTrees(ctx context.Context, ids []uuid.UUID) ([]*TreeResult, error)
	ImportSeed(ctx context.Context, seed *catalogrepo.Seed) (map[string]*types.Resource, error)
}

// StatementInput is one nested outcome/prerequisite edit. A nil ID adds a
// statement; an ID edits the existing one, or removes it when Destroy is set.
type StatementInput struct {
	ID      *uuid.UUID `json:"id,omitempty"`
	Noun    string     `json:"noun"`
	Verb    string     `json:"verb"`
	Destroy bool       `json:"_destroy,omitempty"`
}

// ResourceInput creates a resource when ID is nil and updates it otherwise.
// ContentProvider is a provider title, created on first use.
type ResourceInput struct {
	ID                *uuid.UUID       `json:"id,omitempty"`
	Kind              string           `json:"kind"`
	Title             string           `json:"title"`
	URL               string           `json:"url"`
	ShortDescription  string           `json:"short_description"`
	LongDescription   string           `json:"long_description"`
	DOI               string           `json:"doi"`
	Keywords          []string         `json:"keywords"`
	ContentProvider   string           `json:"content_provider"`
	ContentProviderID *uuid.UUID       `json:"content_provider_id,omitempty"`
	StartsAt          *time.Time       `json:"starts_at,omitempty"`
	EndsAt            *time.Time       `json:"ends_at,omitempty"`
	Outcomes          []StatementInput `json:"learning_outcomes"`
	Prerequisites     []StatementInput `json:"prerequisites"`
}

// SaveResult is the saved resource with its surviving statements, plus the
// statements the dedup gate dropped.
type SaveResult struct {
	Resource *types.Resource
	Removed  prereq.Removals
}

// Projection is the one-level prerequisite view of a resource. Exactly one of
// ByPrerequisite and ByResource is set, according to GroupedBy.
type Projection struct {
	Resource       *types.Resource
	GroupedBy      string
	ByPrerequisite prereq.MatchMap
	ByResource     prereq.ResourceGroups
}

type TreeResult struct {
	Target *types.Resource
	Forest prereq.Forest
	Lines  []string
}

// SignatureInvalidator drops cached catalog lookups for changed outcome
// signatures.
type SignatureInvalidator interface {
	Invalidate(ctx context.Context, sigs ...types.Signature) error
}

type catalogService struct {
	db              *gorm.DB
	log             *logger.Logger
	resourceRepo    repos.ResourceRepo
	statementRepo   repos.LearningStatementRepo
	providerRepo    repos.ContentProviderRepo
	builder         *prereq.Builder
	graph           *neo4jdb.Client
	cache           SignatureInvalidator
	treeConcurrency int
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	resourceRepo repos.ResourceRepo,
	statementRepo repos.LearningStatementRepo,
	providerRepo repos.ContentProviderRepo,
	builder *prereq.Builder,
	graphClient *neo4jdb.Client,
	cache SignatureInvalidator,
	treeConcurrency int,
) CatalogService {
	serviceLog := baseLog.With("service", "CatalogService")
	if treeConcurrency <= 0 {
		treeConcurrency = DefaultTreeConcurrency
	}
	return &catalogService{
		db:              db,
		log:             serviceLog,
		resourceRepo:    resourceRepo,
		statementRepo:   statementRepo,
		providerRepo:    providerRepo,
		builder:         builder,
		graph:           graphClient,
		cache:           cache,
		treeConcurrency: treeConcurrency,
	}
}

// =====================================
// Writes
// =====================================

func (cs *catalogService) SaveResource(ctx context.Context, in ResourceInput) (*SaveResult, error) {
	if err := normalizeResourceInput(&in); err != nil {
		return nil, err
	}

	var (
		resourceID uuid.UUID
		removed    prereq.Removals
		staleSigs  []types.Signature
	)
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		providerID := in.ContentProviderID
		if in.ContentProvider != "" {
			provider, err := cs.providerRepo.GetOrCreateByTitle(dbc, in.ContentProvider, "")
			if err != nil {
				return err
			}
			providerID = &provider.ID
		}

		var existing []*types.LearningStatement
		if in.ID == nil {
			res := &types.Resource{}
			applyResourceInput(res, in, providerID)
			if _, err := cs.resourceRepo.Create(dbc, []*types.Resource{res}); err != nil {
				return err
			}
			resourceID = res.ID
		} else {
			res, err := cs.resourceRepo.GetByID(dbc, *in.ID)
			if err != nil {
				return err
			}
			applyResourceInput(res, in, providerID)
			if err := cs.resourceRepo.Update(dbc, res); err != nil {
				return err
			}
			resourceID = res.ID
			existing, err = cs.statementRepo.ListByResourceIDs(dbc, []uuid.UUID{res.ID}, "")
			if err != nil {
				return err
			}
		}

		for _, st := range existing {
			if st.IsOutcome() {
				staleSigs = append(staleSigs, st.Signature())
			}
		}
		outcomes, err := mergeStatements(resourceID, types.StatementRoleOutcome, existing, in.Outcomes)
		if err != nil {
			return err
		}
		prereqs, err := mergeStatements(resourceID, types.StatementRolePrerequisite, existing, in.Prerequisites)
		if err != nil {
			return err
		}

		removed, err = prereq.DedupeResource(outcomes.kept, prereqs.kept)
		if err != nil {
			return err
		}
		for _, m := range []*mergedStatements{outcomes, prereqs} {
			if err := cs.applyMerge(dbc, m, removed.All()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		cs.log.Warn("SaveResource failed", "error", err)
		return nil, fmt.Errorf("save resource: %w", err)
	}

	saved, err := cs.GetResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	cs.afterWrite(ctx, saved, staleSigs)
	if !removed.Empty() {
		cs.log.Info("dedup removed statements",
			append(ctxutil.LogFields(ctx),
				"resource_id", resourceID,
				"outcomes", len(removed.Outcomes),
				"prerequisites", len(removed.Prerequisites),
			)...,
		)
	}
	return &SaveResult{Resource: saved, Removed: removed}, nil
}

// applyMerge commits one role's statements. Removed rows that exist are
// deleted; removed rows that are new are never inserted.
func (cs *catalogService) applyMerge(dbc dbctx.Context, m *mergedStatements, removed []*types.LearningStatement) error {
	drop := make(map[*types.LearningStatement]struct{}, len(removed))
	for _, st := range removed {
		drop[st] = struct{}{}
	}
	deleteIDs := append([]uuid.UUID{}, m.destroyIDs...)
	var inserts []*types.LearningStatement
	for _, st := range m.kept {
		_, isRemoved := drop[st]
		switch {
		case isRemoved && st.Persisted():
			deleteIDs = append(deleteIDs, st.ID)
		case isRemoved:
			// never inserted
		case !st.Persisted():
			inserts = append(inserts, st)
		case m.changed[st.ID]:
			if err := cs.statementRepo.Update(dbc, st); err != nil {
				return err
			}
		}
	}
	if err := cs.statementRepo.DeleteByIDs(dbc, deleteIDs); err != nil {
		return err
	}
	if _, err := cs.statementRepo.Create(dbc, inserts); err != nil {
		return err
	}
	return nil
}

func (cs *catalogService) DeleteResource(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	res, err := cs.GetResource(ctx, id)
	if err != nil {
		return err
	}
	if err := cs.resourceRepo.SoftDeleteByIDs(dbc, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if err := graph.DeleteResourceGraph(ctx, cs.graph, []uuid.UUID{id}); err != nil {
		cs.log.Warn("neo4j resource delete failed (continuing)", "resource_id", id, "error", err)
	}
	cs.invalidate(ctx, statementSignatures(res.Outcomes))
	return nil
}

// afterWrite mirrors the saved resource into Neo4j and drops cached lookups.
// Both are best-effort; the relational store is authoritative.
func (cs *catalogService) afterWrite(ctx context.Context, res *types.Resource, staleSigs []types.Signature) {
	if err := graph.UpsertResourceStatementGraph(ctx, cs.graph, cs.log, res, res.Outcomes, res.Prerequisites); err != nil {
		cs.log.Warn("neo4j resource sync failed (continuing)", "resource_id", res.ID, "error", err)
	}
	cs.invalidate(ctx, append(staleSigs, statementSignatures(res.Outcomes)...))
}

func (cs *catalogService) invalidate(ctx context.Context, sigs []types.Signature) {
	if cs.cache == nil || len(sigs) == 0 {
		return
	}
	if err := cs.cache.Invalidate(ctx, sigs...); err != nil {
		cs.log.Warn("signature cache invalidation failed", "error", err)
	}
}

// =====================================
// Reads
// =====================================

func (cs *catalogService) GetResource(ctx context.Context, id uuid.UUID) (*types.Resource, error) {
	res, err := cs.resourceRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if err := cs.loadStatements(ctx, []*types.Resource{res}); err != nil {
		return nil, err
	}
	return res, nil
}

func (cs *catalogService) FindByTitle(ctx context.Context, title string) (*types.Resource, error) {
	res, err := cs.resourceRepo.GetByTitle(dbctx.Context{Ctx: ctx}, title)
	if err != nil {
		return nil, err
	}
	if err := cs.loadStatements(ctx, []*types.Resource{res}); err != nil {
		return nil, err
	}
	return res, nil
}

func (cs *catalogService) ListResources(ctx context.Context, filter repos.ResourceFilter) ([]*types.Resource, error) {
	list, err := cs.resourceRepo.List(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		return nil, err
	}
	if err := cs.loadStatements(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (cs *catalogService) loadStatements(ctx context.Context, list []*types.Resource) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(list))
	byID := make(map[uuid.UUID]*types.Resource, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
		byID[r.ID] = r
		r.Outcomes = []*types.LearningStatement{}
		r.Prerequisites = []*types.LearningStatement{}
	}
	rows, err := cs.statementRepo.ListByResourceIDs(dbctx.Context{Ctx: ctx}, ids, "")
	if err != nil {
		return err
	}
	for _, st := range rows {
		r := byID[st.ResourceID]
		if r == nil {
			continue
		}
		if st.IsOutcome() {
			r.Outcomes = append(r.Outcomes, st)
		} else {
			r.Prerequisites = append(r.Prerequisites, st)
		}
	}
	return nil
}

func (cs *catalogService) PrerequisiteResources(ctx context.Context, id uuid.UUID, groupedBy string) (*Projection, error) {
	groupedBy = strings.TrimSpace(strings.ToLower(groupedBy))
	if groupedBy == "" {
		groupedBy = prereq.GroupByPrerequisites
	}
	if groupedBy != prereq.GroupByPrerequisites && groupedBy != prereq.GroupByResources {
		return nil, fmt.Errorf("grouped_by %q: %w", groupedBy, pkgerrors.ErrInvalidArgument)
	}
	target, err := cs.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	matches, err := cs.builder.MatchMap(ctx, target)
	if err != nil {
		return nil, err
	}
	out := &Projection{Resource: target, GroupedBy: groupedBy}
	if groupedBy == prereq.GroupByResources {
		out.ByResource = prereq.GroupByResource(matches)
	} else {
		out.ByPrerequisite = matches
	}
	return out, nil
}

func (cs *catalogService) LearningTree(ctx context.Context, id uuid.UUID) (*TreeResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "catalog.learning_tree")
	defer span.End()
	span.SetAttributes(attribute.String("resource.id", id.String()))

	target, err := cs.GetResource(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load target")
		return nil, err
	}
	forest, err := cs.builder.BuildTree(ctx, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build tree")
		cs.log.Warn("learning tree build failed", append(ctxutil.LogFields(ctx), "resource_id", id, "error", err)...)
		return nil, err
	}
	size := forest.Size()
	span.SetAttributes(attribute.Int("tree.nodes", size), attribute.Int("tree.depth", forest.Depth()))
	cs.log.Debug("learning tree built", "resource_id", id, "nodes", size, "depth", forest.Depth())
	return &TreeResult{Target: target, Forest: forest, Lines: prereq.Render(forest)}, nil
}

// LearningTrees builds independent trees concurrently. Results keep the
// order of ids; the first failure cancels the rest.
func (cs *catalogService) LearningTrees(ctx context.Context, ids []uuid.UUID) ([]*TreeResult, error) {
	out := make([]*TreeResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cs.treeConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			res, err := cs.LearningTree(gctx, id)
			if err != nil {
				return fmt.Errorf("learning tree %s: %w", id, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// =====================================
// Input helpers
// =====================================

func normalizeResourceInput(in *ResourceInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	in.ContentProvider = strings.TrimSpace(in.ContentProvider)
	in.Kind = strings.TrimSpace(strings.ToLower(in.Kind))
	if in.Kind == "" {
		in.Kind = types.ResourceKindMaterial
	}
	if in.Kind != types.ResourceKindMaterial && in.Kind != types.ResourceKindEvent {
		return fmt.Errorf("kind %q: %w", in.Kind, pkgerrors.ErrInvalidArgument)
	}
	if in.Title == "" {
		return fmt.Errorf("title required: %w", pkgerrors.ErrInvalidArgument)
	}
	if in.URL == "" {
		return fmt.Errorf("url required: %w", pkgerrors.ErrInvalidArgument)
	}
	if in.StartsAt != nil && in.EndsAt != nil && in.EndsAt.Before(*in.StartsAt) {
		return fmt.Errorf("ends_at before starts_at: %w", pkgerrors.ErrInvalidArgument)
	}
	return nil
}

func applyResourceInput(res *types.Resource, in ResourceInput, providerID *uuid.UUID) {
	res.Kind = in.Kind
	res.Title = in.Title
	res.URL = in.URL
	res.ShortDescription = in.ShortDescription
	res.LongDescription = in.LongDescription
	res.DOI = strings.TrimSpace(in.DOI)
	res.ContentProviderID = providerID
	res.StartsAt = in.StartsAt
	res.EndsAt = in.EndsAt
	res.Keywords = nil
	if len(in.Keywords) > 0 {
		if raw, err := json.Marshal(in.Keywords); err == nil {
			res.Keywords = datatypes.JSON(raw)
		}
	}
}

type mergedStatements struct {
	// kept holds the statements that should exist after the save, before
	// dedup: untouched and edited rows first, then additions.
	kept       []*types.LearningStatement
	changed    map[uuid.UUID]bool
	destroyIDs []uuid.UUID
}

// mergeStatements applies nested edits for one role on top of the persisted
// statements. Edited rows keep their creation time so dedup still prefers
// the oldest.
func mergeStatements(resourceID uuid.UUID, role string, existing []*types.LearningStatement, edits []StatementInput) (*mergedStatements, error) {
	out := &mergedStatements{changed: map[uuid.UUID]bool{}}
	byID := map[uuid.UUID]*types.LearningStatement{}
	maxPos := -1
	for _, st := range existing {
		if st.Role != role {
			continue
		}
		byID[st.ID] = st
		if st.Position > maxPos {
			maxPos = st.Position
		}
	}

	destroy := map[uuid.UUID]bool{}
	var additions []*types.LearningStatement
	for i, e := range edits {
		if e.ID == nil {
			if e.Destroy {
				continue
			}
			maxPos++
			additions = append(additions, &types.LearningStatement{
				ResourceID: resourceID,
				Role:       role,
				Noun:       e.Noun,
				Verb:       e.Verb,
				Position:   maxPos,
			})
			continue
		}
		st, ok := byID[*e.ID]
		if !ok {
			return nil, fmt.Errorf("%s %d: statement %s not on resource: %w", role, i, *e.ID, pkgerrors.ErrInvalidArgument)
		}
		if e.Destroy {
			destroy[st.ID] = true
			continue
		}
		if st.Noun != e.Noun || st.Verb != e.Verb {
			st.Noun, st.Verb = e.Noun, e.Verb
			out.changed[st.ID] = true
		}
	}

	for _, st := range existing {
		if st.Role != role {
			continue
		}
		if destroy[st.ID] {
			out.destroyIDs = append(out.destroyIDs, st.ID)
			continue
		}
		out.kept = append(out.kept, st)
	}
	out.kept = append(out.kept, additions...)
	if err := prereq.Validate(prereq.Role(role), out.kept); err != nil {
		return nil, err
	}
	return out, nil
}

func statementSignatures(list []*types.LearningStatement) []types.Signature {
	out := make([]types.Signature, 0, len(list))
	for _, st := range list {
		if st != nil {
			out = append(out, st.Signature())
		}
	}
	return out
}
