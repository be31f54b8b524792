package prereq

import "slices"

// Dedupe returns the statements that must be removed so every signature in
// the list is unique. Statements are stable-sorted by creation time (unsaved
// last) and the first occurrence of each signature survives. The input slice
// is not modified. Running Dedupe on its own survivors returns nothing.
func Dedupe(role Role, statements []*Statement) ([]*Statement, error) {
	if err := Validate(role, statements); err != nil {
		return nil, err
	}
	ordered := slices.Clone(statements)
	slices.SortStableFunc(ordered, compareCreated)

	seen := make(map[Signature]struct{}, len(ordered))
	var removals []*Statement
	for _, st := range ordered {
		sig := st.Signature()
		if _, dup := seen[sig]; dup {
			removals = append(removals, st)
			continue
		}
		seen[sig] = struct{}{}
	}
	return removals, nil
}

// Removals is the dedup result for one resource.
type Removals struct {
	Outcomes      []*Statement
	Prerequisites []*Statement
}

func (r Removals) Empty() bool { return len(r.Outcomes) == 0 && len(r.Prerequisites) == 0 }

func (r Removals) All() []*Statement {
	out := make([]*Statement, 0, len(r.Outcomes)+len(r.Prerequisites))
	out = append(out, r.Outcomes...)
	return append(out, r.Prerequisites...)
}

// DedupeResource applies Dedupe independently to both statement lists of a
// resource. An outcome and a prerequisite may share a signature.
func DedupeResource(outcomes, prerequisites []*Statement) (Removals, error) {
	o, err := Dedupe(RoleOutcome, outcomes)
	if err != nil {
		return Removals{}, err
	}
	p, err := Dedupe(RolePrerequisite, prerequisites)
	if err != nil {
		return Removals{}, err
	}
	return Removals{Outcomes: o, Prerequisites: p}, nil
}

// Survivors filters removed statements out of list, keeping list order.
func Survivors(list, removed []*Statement) []*Statement {
	if len(removed) == 0 {
		return slices.Clone(list)
	}
	drop := make(map[*Statement]struct{}, len(removed))
	for _, st := range removed {
		drop[st] = struct{}{}
	}
	out := make([]*Statement, 0, len(list))
	for _, st := range list {
		if _, ok := drop[st]; !ok {
			out = append(out, st)
		}
	}
	return out
}
