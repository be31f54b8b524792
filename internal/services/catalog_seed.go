package services

import (
	"context"
	"fmt"

	catalogrepo "github.com/yungbote/learnpath-backend/internal/data/repos/catalog"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
)

// ImportSeed saves every seed resource through SaveResource, in file order,
// so seeded statements pass the same validation and dedup gate as API
// writes. Resources are returned by seed key.
func (cs *catalogService) ImportSeed(ctx context.Context, seed *catalogrepo.Seed) (map[string]*types.Resource, error) {
	out := map[string]*types.Resource{}
	if seed == nil {
		return out, nil
	}
	dbc := dbctx.Context{Ctx: ctx}
	for _, p := range seed.Providers {
		if _, err := cs.providerRepo.GetOrCreateByTitle(dbc, p.Title, p.URL); err != nil {
			return nil, fmt.Errorf("seed provider %q: %w", p.Title, err)
		}
	}
	for _, sr := range seed.Resources {
		res, err := cs.SaveResource(ctx, ResourceInput{
			Kind:             sr.Kind,
			Title:            sr.Title,
			URL:              sr.URL,
			ShortDescription: sr.ShortDescription,
			LongDescription:  sr.LongDescription,
			DOI:              sr.DOI,
			Keywords:         sr.Keywords,
			ContentProvider:  sr.Provider,
			Outcomes:         signatureInputs(sr.Outcomes),
			Prerequisites:    signatureInputs(sr.Prerequisites),
		})
		if err != nil {
			return nil, fmt.Errorf("seed resource %q: %w", sr.Key, err)
		}
		out[sr.Key] = res.Resource
	}
	cs.log.Info("catalog seed imported", "providers", len(seed.Providers), "resources", len(out))
	return out, nil
}

func signatureInputs(sigs []types.Signature) []StatementInput {
	out := make([]StatementInput, 0, len(sigs))
	for _, s := range sigs {
		out = append(out, StatementInput{Noun: s.Noun, Verb: s.Verb})
	}
	return out
}
