package prereq

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/learnpath-backend/internal/pkg/errors"
)

func stmt(noun, verb string, created time.Time) *Statement {
	return &Statement{ID: uuid.New(), Role: string(RoleOutcome), Noun: noun, Verb: verb, CreatedAt: created}
}

func TestDedupeKeepsOldest(t *testing.T) {
	older := stmt("stats", "understand", baseTime)
	newer := stmt("stats", "understand", baseTime.Add(time.Hour))

	removed, err := Dedupe(RoleOutcome, []*Statement{newer, older})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(removed) != 1 || removed[0] != newer {
		t.Fatalf("expected newer statement removed, got %v", removed)
	}
}

func TestDedupeUnsavedLosesToPersisted(t *testing.T) {
	unsaved := stmt("stats", "understand", time.Time{})
	saved := stmt("stats", "understand", baseTime.Add(48*time.Hour))

	removed, err := Dedupe(RoleOutcome, []*Statement{unsaved, saved})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(removed) != 1 || removed[0] != unsaved {
		t.Fatalf("expected unsaved statement removed, got %v", removed)
	}
}

func TestDedupeUnsavedTiesKeepInputOrder(t *testing.T) {
	first := stmt("algebra", "apply", time.Time{})
	second := stmt("algebra", "apply", time.Time{})
	third := stmt("algebra", "apply", time.Time{})

	removed, err := Dedupe(RolePrerequisite, []*Statement{first, second, third})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(removed) != 2 || removed[0] != second || removed[1] != third {
		t.Fatalf("expected later duplicates removed in order, got %v", removed)
	}
}

func TestDedupeSignatureIsExact(t *testing.T) {
	list := []*Statement{
		stmt("stats", "understand", baseTime),
		stmt("Stats", "understand", baseTime),
		stmt("stats", "Understand", baseTime),
		stmt("stats", "apply", baseTime),
	}
	removed, err := Dedupe(RoleOutcome, list)
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("expected no removals for distinct signatures, got %d", len(removed))
	}
}

func TestDedupeIsIdempotent(t *testing.T) {
	list := []*Statement{
		stmt("a", "know", baseTime.Add(3*time.Minute)),
		stmt("b", "know", time.Time{}),
		stmt("a", "know", baseTime),
		stmt("b", "know", baseTime.Add(time.Minute)),
		stmt("c", "know", time.Time{}),
		stmt("c", "know", time.Time{}),
	}
	removed, err := Dedupe(RoleOutcome, list)
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(removed) != 3 {
		t.Fatalf("expected 3 removals, got %d", len(removed))
	}
	survivors := Survivors(list, removed)
	if len(survivors) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(survivors))
	}
	again, err := Dedupe(RoleOutcome, survivors)
	if err != nil {
		t.Fatalf("second Dedupe: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second pass marked %d statements", len(again))
	}
}

func TestDedupeDoesNotReorderInput(t *testing.T) {
	a := stmt("a", "know", baseTime.Add(time.Hour))
	b := stmt("b", "know", baseTime)
	list := []*Statement{a, b}
	if _, err := Dedupe(RoleOutcome, list); err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if list[0] != a || list[1] != b {
		t.Fatal("input slice was reordered")
	}
}

func TestDedupeRejectsBlankSignature(t *testing.T) {
	cases := map[string]*Statement{
		"blank noun": stmt("  ", "understand", baseTime),
		"blank verb": stmt("stats", "", baseTime),
		"nil":        nil,
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Dedupe(RolePrerequisite, []*Statement{stmt("x", "y", baseTime), bad})
			if !errors.Is(err, ErrInvalidSignature) {
				t.Fatalf("expected ErrInvalidSignature, got %v", err)
			}
			if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			var se *SignatureError
			if !errors.As(err, &se) || se.Index != 1 || se.Role != RolePrerequisite {
				t.Fatalf("unexpected signature error: %#v", se)
			}
		})
	}
}

func TestDedupeResourceTreatsListsIndependently(t *testing.T) {
	outcome := stmt("stats", "understand", baseTime)
	prereq := stmt("stats", "understand", baseTime)
	prereqDup := stmt("stats", "understand", time.Time{})

	removals, err := DedupeResource([]*Statement{outcome}, []*Statement{prereq, prereqDup})
	if err != nil {
		t.Fatalf("DedupeResource: %v", err)
	}
	if len(removals.Outcomes) != 0 {
		t.Fatalf("outcome removed because of a prerequisite: %v", removals.Outcomes)
	}
	if len(removals.Prerequisites) != 1 || removals.Prerequisites[0] != prereqDup {
		t.Fatalf("unexpected prerequisite removals: %v", removals.Prerequisites)
	}
	if removals.Empty() || len(removals.All()) != 1 {
		t.Fatalf("unexpected aggregate removals: %+v", removals)
	}
}
