package prereq

import (
	"context"

	"github.com/google/uuid"
)

type NodeKind string

const (
	// NodeLeaf satisfies its prerequisite and has nothing left to trace.
	NodeLeaf NodeKind = "leaf"
	// NodeBranch has children, or prerequisites no resource satisfies.
	NodeBranch NodeKind = "branch"
)

// Node is one entry of a learning tree: Resource satisfies Prerequisite of
// the parent (or of the target, at the top level).
type Node struct {
	Kind         NodeKind
	Resource     *Resource
	Prerequisite *Statement
	// Unsatisfied lists Resource's own prerequisites with no match in the catalog.
	Unsatisfied []*Statement
	Children    Forest
}

func (n *Node) IsLeaf() bool { return n != nil && n.Kind == NodeLeaf }

// Forest is an ordered list of sibling nodes.
type Forest []*Node

// Walk visits nodes depth-first in sibling order. Returning false from fn
// skips the node's children.
func (f Forest) Walk(fn func(depth int, n *Node) bool) {
	f.walk(0, fn)
}

func (f Forest) walk(depth int, fn func(int, *Node) bool) {
	for _, n := range f {
		if n == nil {
			continue
		}
		if fn(depth, n) {
			n.Children.walk(depth+1, fn)
		}
	}
}

// Size counts every node in the forest.
func (f Forest) Size() int {
	count := 0
	f.Walk(func(int, *Node) bool { count++; return true })
	return count
}

// Depth is the number of levels; an empty forest has depth 0.
func (f Forest) Depth() int {
	max := 0
	f.Walk(func(d int, _ *Node) bool {
		if d+1 > max {
			max = d + 1
		}
		return true
	})
	return max
}

// Builder assembles learning trees. It holds no per-call state, so one
// Builder may serve concurrent BuildTree calls.
type Builder struct {
	accessor ResourceAccessor
	resolver *Resolver
}

func NewBuilder(accessor ResourceAccessor, resolver *Resolver) *Builder {
	return &Builder{accessor: accessor, resolver: resolver}
}

func (b *Builder) Resolver() *Resolver { return b.resolver }

// BuildTree returns the forest of resources satisfying target's
// prerequisites, expanded recursively. A resource never appears twice on a
// root-to-leaf path; siblings and unrelated branches may repeat. Any
// collaborator failure aborts the whole build.
func (b *Builder) BuildTree(ctx context.Context, target *Resource) (Forest, error) {
	if target == nil {
		return nil, ErrNilResource
	}
	forest, _, err := b.build(ctx, target, newPathSet())
	if err != nil {
		return nil, err
	}
	return forest, nil
}

type pendingMatch struct {
	resource *Resource
	prereq   *Statement
}

func (b *Builder) build(ctx context.Context, target *Resource, path *pathSet) (Forest, []*Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	path.push(target.ID)
	defer path.pop()

	prereqs, err := b.accessor.PrerequisitesOf(ctx, target)
	if err != nil {
		return nil, nil, storeErr("prerequisites of resource", err)
	}

	var (
		pending     []pendingMatch
		unsatisfied []*Statement
	)
	for _, p := range prereqs {
		candidates, err := b.resolver.Matches(ctx, p)
		if err != nil {
			return nil, nil, err
		}
		if len(candidates) == 0 {
			unsatisfied = append(unsatisfied, p)
			continue
		}
		for _, r := range candidates {
			if path.contains(r.ID) {
				continue
			}
			pending = append(pending, pendingMatch{resource: r, prereq: p})
		}
	}

	forest := make(Forest, 0, len(pending))
	for _, pm := range pending {
		children, missing, err := b.build(ctx, pm.resource, path)
		if err != nil {
			return nil, nil, err
		}
		node := &Node{
			Kind:         NodeLeaf,
			Resource:     pm.resource,
			Prerequisite: pm.prereq,
			Unsatisfied:  missing,
			Children:     children,
		}
		if len(children) > 0 || len(missing) > 0 {
			node.Kind = NodeBranch
		}
		forest = append(forest, node)
	}
	return forest, unsatisfied, nil
}

// pathSet tracks the resources on the active root-to-here stack.
type pathSet struct {
	stack   []uuid.UUID
	members map[uuid.UUID]int
}

func newPathSet() *pathSet {
	return &pathSet{members: make(map[uuid.UUID]int)}
}

func (p *pathSet) push(id uuid.UUID) {
	p.stack = append(p.stack, id)
	p.members[id]++
}

func (p *pathSet) pop() {
	if len(p.stack) == 0 {
		return
	}
	id := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	if p.members[id] <= 1 {
		delete(p.members, id)
		return
	}
	p.members[id]--
}

func (p *pathSet) contains(id uuid.UUID) bool {
	_, ok := p.members[id]
	return ok
}
