package prereq

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type pairKey struct{ prereq, resource uuid.UUID }

func pairSet(m MatchMap) map[pairKey]int {
	out := map[pairKey]int{}
	for _, p := range m.Pairs() {
		out[pairKey{p.Prerequisite.ID, p.Resource.ID}]++
	}
	return out
}

func projectionCatalog() (*memCatalog, *Resource) {
	cat := newMemCatalog()
	target := cat.add("T", nil, []Signature{sig("p1", "know"), sig("p2", "know"), sig("p3", "know"), sig("orphan", "know")})
	cat.add("R1", []Signature{sig("p1", "know"), sig("p3", "know")}, nil)
	cat.add("R2", []Signature{sig("p1", "know"), sig("p2", "know")}, nil)
	cat.add("R3", []Signature{sig("p3", "know")}, nil)
	return cat, target
}

func TestMatchMapKeepsUnmatchedPrerequisites(t *testing.T) {
	cat, target := projectionCatalog()
	m, err := cat.builder().MatchMap(context.Background(), target)
	if err != nil {
		t.Fatalf("MatchMap: %v", err)
	}
	if len(m) != 4 {
		t.Fatalf("expected one entry per prerequisite, got %d", len(m))
	}
	if m[3].Prerequisite.Noun != "orphan" || len(m[3].Resources) != 0 {
		t.Fatalf("expected orphan prerequisite with no resources, got %+v", m[3])
	}
	if got := len(m[0].Resources); got != 2 {
		t.Fatalf("p1: expected 2 resources, got %d", got)
	}
}

func TestGroupByResourceOrderAndSparsity(t *testing.T) {
	cat, target := projectionCatalog()
	m, err := cat.builder().MatchMap(context.Background(), target)
	if err != nil {
		t.Fatalf("MatchMap: %v", err)
	}
	groups := GroupByResource(m)
	if len(groups) != 3 {
		t.Fatalf("expected 3 resource keys, got %d", len(groups))
	}
	wantOrder := []string{"R1", "R2", "R3"}
	wantPrereqs := map[string][]string{
		"R1": {"p1", "p3"},
		"R2": {"p1", "p2"},
		"R3": {"p3"},
	}
	for i, g := range groups {
		if g.Resource.Title != wantOrder[i] {
			t.Fatalf("group %d: want %s got %s", i, wantOrder[i], g.Resource.Title)
		}
		want := wantPrereqs[g.Resource.Title]
		if len(g.Prerequisites) != len(want) {
			t.Fatalf("%s: want %v got %d prerequisites", g.Resource.Title, want, len(g.Prerequisites))
		}
		for j, p := range g.Prerequisites {
			if p.Noun != want[j] {
				t.Fatalf("%s[%d]: want %s got %s", g.Resource.Title, j, want[j], p.Noun)
			}
		}
	}
}

func TestGroupByResourceRoundTrip(t *testing.T) {
	cat, target := projectionCatalog()
	m, err := cat.builder().MatchMap(context.Background(), target)
	if err != nil {
		t.Fatalf("MatchMap: %v", err)
	}
	back := GroupByResource(m).Flatten()
	want, got := pairSet(m), pairSet(back)
	if len(want) != len(got) {
		t.Fatalf("pair count: want %d got %d", len(want), len(got))
	}
	for k, n := range want {
		if got[k] != n {
			t.Fatalf("pair %v: want %d got %d", k, n, got[k])
		}
	}
}

func TestGroupByResourceEmpty(t *testing.T) {
	groups := GroupByResource(nil)
	if groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty groups, got %#v", groups)
	}
	if len(groups.Flatten()) != 0 {
		t.Fatal("expected empty flatten")
	}
}

func TestFlattenKeysUnsavedStatementsByPointer(t *testing.T) {
	p1 := &Statement{Noun: "a", Verb: "know"}
	p2 := &Statement{Noun: "b", Verb: "know"}
	r := &Resource{ID: uuid.New(), Title: "R"}
	back := ResourceGroups{{Resource: r, Prerequisites: []*Statement{p1, p2}}}.Flatten()
	if len(back) != 2 || back[0].Prerequisite != p1 || back[1].Prerequisite != p2 {
		t.Fatalf("unexpected flatten result: %+v", back)
	}
}
