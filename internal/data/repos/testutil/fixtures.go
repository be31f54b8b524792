package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
)

// SeedResource inserts a material with the given outcomes and prerequisites.
// created orders resources in catalog queries.
func SeedResource(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, created time.Time, outcomes, prereqs []types.Signature) *types.Resource {
	tb.Helper()
	r := &types.Resource{
		ID:        uuid.New(),
		Kind:      types.ResourceKindMaterial,
		Title:     title,
		URL:       "https://example.org/" + uuid.NewString(),
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := tx.WithContext(ctx).Omit("ContentProvider").Create(r).Error; err != nil {
		tb.Fatalf("seed resource: %v", err)
	}
	for i, s := range outcomes {
		SeedStatement(tb, ctx, tx, r.ID, types.StatementRoleOutcome, s, i, created)
	}
	for i, s := range prereqs {
		SeedStatement(tb, ctx, tx, r.ID, types.StatementRolePrerequisite, s, i, created)
	}
	return r
}

func SeedStatement(tb testing.TB, ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, role string, s types.Signature, position int, created time.Time) *types.LearningStatement {
	tb.Helper()
	st := &types.LearningStatement{
		ID:         uuid.New(),
		ResourceID: resourceID,
		Role:       role,
		Noun:       s.Noun,
		Verb:       s.Verb,
		Position:   position,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	if err := tx.WithContext(ctx).Omit("Resource").Create(st).Error; err != nil {
		tb.Fatalf("seed statement: %v", err)
	}
	return st
}

func Sig(noun, verb string) types.Signature { return types.Signature{Noun: noun, Verb: verb} }

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
