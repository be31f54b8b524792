// Package prereq resolves prerequisite chains across the resource catalog.
//
// A resource declares learning outcomes (what it teaches) and prerequisites
// (what a learner must already know). A prerequisite is satisfied by every
// other resource exposing an outcome with the same (noun, verb) signature.
// The package dedupes statement lists before they are committed, resolves
// matches through an injected catalog query, and builds a cycle-safe
// learning tree with two projections and an outline renderer.
package prereq

import (
	"github.com/yungbote/learnpath-backend/internal/domain/catalog"
)

type (
	Resource  = catalog.Resource
	Statement = catalog.LearningStatement
	Signature = catalog.Signature
)

type Role string

const (
	RoleOutcome      Role = catalog.StatementRoleOutcome
	RolePrerequisite Role = catalog.StatementRolePrerequisite
)

// compareCreated orders statements by creation time, oldest first. Statements
// without a timestamp sort after every persisted one.
func compareCreated(a, b *Statement) int {
	az, bz := a.CreatedAt.IsZero(), b.CreatedAt.IsZero()
	switch {
	case az && bz:
		return 0
	case az:
		return 1
	case bz:
		return -1
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// Validate rejects nil statements and statements with a blank noun or verb.
func Validate(role Role, statements []*Statement) error {
	for i, st := range statements {
		if st == nil {
			return &SignatureError{Index: i, Role: role}
		}
		if !st.Signature().Valid() {
			return &SignatureError{Index: i, Role: role, Noun: st.Noun, Verb: st.Verb}
		}
	}
	return nil
}

func SignatureOf(st *Statement) Signature { return st.Signature() }

// Less reports whether a was created before b under the same ordering Dedupe uses.
func Less(a, b *Statement) bool { return compareCreated(a, b) < 0 }
