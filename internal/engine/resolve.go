package engine

import (
	"fmt"
	"strings"

	"javasym/internal/cache"
	"javasym/internal/scope"
	"javasym/internal/tree"
	"javasym/internal/typesolver"
)

// Resolution is the successful outcome of resolving a name reference: the
// declaration it binds to and that declaration's type.
type Resolution struct {
	Name       string
	Type       string // qualified when the type solver knows it
	TypeSolved bool
	DeclPos    tree.Position
	DeclScope  scope.Kind
}

// Resolver answers "what declaration does this name refer to, and what is
// its type" over parsed Java trees. It is safe for concurrent use across
// trees and for concurrent read-only resolution over one tree: resolution
// never mutates the tree, and all shared state lives in the caches.
type Resolver struct {
	solver typesolver.TypeSolver
	memo   *cache.Cache[*Resolution]
	types  *cache.Cache[*typesolver.TypeDeclaration]
}

// NewResolver creates a resolver over the given type solver backend with
// default-capacity caches.
func NewResolver(solver typesolver.TypeSolver) *Resolver {
	return NewResolverWithCapacity(solver, cache.DefaultCapacity)
}

// NewResolverWithCapacity bounds both internal caches at capacity entries.
func NewResolverWithCapacity(solver typesolver.TypeSolver, capacity int) *Resolver {
	return &Resolver{
		solver: solver,
		memo:   cache.New[*Resolution](capacity),
		types:  cache.New[*typesolver.TypeDeclaration](capacity),
	}
}

// Stats returns the resolution cache counters.
func (r *Resolver) Stats() cache.Stats {
	return r.memo.Stats()
}

// TypeStats returns the type-solving cache counters.
func (r *Resolver) TypeStats() cache.Stats {
	return r.types.Stats()
}

// Resolve resolves a name-reference node to its declaration. Failures are
// values: *UnresolvedSymbolError when no enclosing scope declares the
// name, *UnnamedVariableError when the nearest declaration is the unnamed
// binder. Resolving the same node twice yields the identical Resolution,
// the second time from the cache.
func (r *Resolver) Resolve(n *tree.Node) (*Resolution, error) {
	if !n.IsNameReference() {
		return nil, fmt.Errorf("node %s at %s is not a name reference", n.Kind(), n.Pos())
	}
	return r.memo.GetOrLoad(r.cacheKey(n), func() (*Resolution, error) {
		return r.resolveUncached(n)
	})
}

// ResolveType solves a type name through the configured backend, memoized.
// An *typesolver.UnsolvedTypeError propagates to the caller; failed
// lookups are not stored, so a later call after reconfiguration retries.
func (r *Resolver) ResolveType(name string) (*typesolver.TypeDeclaration, error) {
	return r.types.GetOrLoad(name, func() (*typesolver.TypeDeclaration, error) {
		return r.solver.Solve(name)
	})
}

// cacheKey identifies a resolution request: the node's position within
// its tree plus the solver configuration. The tree's identity, not its
// path, keys the entry: distinct trees may share a path or lack one.
func (r *Resolver) cacheKey(n *tree.Node) string {
	return fmt.Sprintf("%d:%d:%s:%s", n.File().ID(), n.StartByte(), n.Text(), r.solver.Name())
}

func (r *Resolver) resolveUncached(n *tree.Node) (*Resolution, error) {
	table, anchor := r.buildChain(n)

	declID, found := table.Lookup(anchor, n.Text())
	if !found {
		return nil, &UnresolvedSymbolError{Name: n.Text(), Pos: n.Pos()}
	}
	decl := table.Decl(declID)
	if decl.Unnamed() {
		// The binder undeniably exists; a use-site just may not read it.
		return nil, &UnnamedVariableError{Pos: n.Pos()}
	}

	typeName, solved := r.qualify(decl.Type)
	return &Resolution{
		Name:       decl.Name,
		Type:       typeName,
		TypeSolved: solved,
		DeclPos:    decl.Pos,
		DeclScope:  table.KindOf(decl.Scope),
	}, nil
}

// qualify maps a written type to its solved qualified name when a backend
// knows it; otherwise the written spelling stands. Generic arguments are
// erased before solving.
func (r *Resolver) qualify(written string) (string, bool) {
	name := strings.TrimSpace(written)
	if name == "" {
		return "", false
	}
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	decl, err := r.ResolveType(name)
	if err != nil {
		return written, false
	}
	return decl.QualifiedName, true
}
