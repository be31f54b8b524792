package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
)

func TestLearningStatementRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)
	repo := NewLearningStatementRepo(db, log)
	resources := NewResourceRepo(db, log)

	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	stats := testutil.Sig("stats", "understand")
	older := testutil.SeedResource(t, ctx, tx, "older", t0, []types.Signature{stats}, nil)
	newer := testutil.SeedResource(t, ctx, tx, "newer", t0.Add(time.Hour), []types.Signature{stats}, []types.Signature{stats})
	gone := testutil.SeedResource(t, ctx, tx, "gone", t0.Add(2*time.Hour), []types.Signature{stats}, nil)

	created, err := repo.Create(dbc, []*types.LearningStatement{
		{ResourceID: older.ID, Role: types.StatementRolePrerequisite, Noun: "algebra", Verb: "apply", Position: 1},
		{ResourceID: older.ID, Role: types.StatementRolePrerequisite, Noun: "arithmetic", Verb: "apply", Position: 0},
	})
	if err != nil || len(created) != 2 {
		t.Fatalf("Create: err=%v len=%d", err, len(created))
	}
	if created[0].CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set on insert")
	}

	prereqs, err := repo.ListByResourceIDs(dbc, []uuid.UUID{older.ID}, types.StatementRolePrerequisite)
	if err != nil || len(prereqs) != 2 {
		t.Fatalf("ListByResourceIDs: err=%v len=%d", err, len(prereqs))
	}
	if prereqs[0].Noun != "arithmetic" || prereqs[1].Noun != "algebra" {
		t.Fatalf("expected position order, got %s, %s", prereqs[0].Noun, prereqs[1].Noun)
	}
	all, err := repo.ListByResourceIDs(dbc, []uuid.UUID{older.ID}, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("ListByResourceIDs all roles: err=%v len=%d", err, len(all))
	}

	prereqs[0].Noun = "arithmetic basics"
	if err := repo.Update(dbc, prereqs[0]); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := resources.SoftDeleteByIDs(dbc, []uuid.UUID{gone.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	ids, err := repo.FindResourceIDsWithSignature(dbc, types.StatementRoleOutcome, stats)
	if err != nil {
		t.Fatalf("FindResourceIDsWithSignature: %v", err)
	}
	if len(ids) != 2 || ids[0] != older.ID || ids[1] != newer.ID {
		t.Fatalf("expected [older newer], got %v", ids)
	}
	ids, err = repo.FindResourceIDsWithSignature(dbc, types.StatementRolePrerequisite, stats)
	if err != nil || len(ids) != 1 || ids[0] != newer.ID {
		t.Fatalf("prerequisite signature lookup: err=%v ids=%v", err, ids)
	}
	ids, err = repo.FindResourceIDsWithSignature(dbc, types.StatementRoleOutcome, testutil.Sig("Stats", "understand"))
	if err != nil || len(ids) != 0 {
		t.Fatalf("signature match must be exact: err=%v ids=%v", err, ids)
	}

	if err := repo.DeleteByIDs(dbc, []uuid.UUID{created[0].ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if rows, err := repo.ListByResourceIDs(dbc, []uuid.UUID{older.ID}, types.StatementRolePrerequisite); err != nil || len(rows) != 1 {
		t.Fatalf("after DeleteByIDs: err=%v len=%d", err, len(rows))
	}
}

func TestEngineStoreMatchesEngineContract(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	stats := testutil.Sig("stats", "understand")
	a := testutil.SeedResource(t, ctx, tx, "A", t0, nil, []types.Signature{stats})
	b := testutil.SeedResource(t, ctx, tx, "B", t0.Add(time.Minute), []types.Signature{stats}, nil)

	store := NewEngineStore(NewResourceRepo(tx, log), NewLearningStatementRepo(tx, log))
	prereqs, err := store.PrerequisitesOf(ctx, a)
	if err != nil || len(prereqs) != 1 {
		t.Fatalf("PrerequisitesOf: err=%v len=%d", err, len(prereqs))
	}
	outcomes, err := store.OutcomesOf(ctx, a)
	if err != nil || len(outcomes) != 0 {
		t.Fatalf("OutcomesOf: err=%v len=%d", err, len(outcomes))
	}
	found, err := store.FindResourcesWithOutcomeSignature(ctx, stats)
	if err != nil || len(found) != 1 || found[0].ID != b.ID {
		t.Fatalf("FindResourcesWithOutcomeSignature: err=%v found=%v", err, found)
	}
	none, err := store.FindResourcesWithOutcomeSignature(ctx, testutil.Sig("algebra", "apply"))
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil result, got err=%v %#v", err, none)
	}
}
