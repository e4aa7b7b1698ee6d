package typesolver

import (
	"fmt"
	"strings"
)

// TypeKind classifies a solved type declaration.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
	KindRecord    TypeKind = "record"
	KindEnum      TypeKind = "enum"
)

// Component is one record component, in declaration order. Deconstruction
// patterns match components positionally.
type Component struct {
	Name string
	Type string
}

// TypeDeclaration describes a solved type. Instances are immutable;
// solving the same name twice through the same solver configuration
// yields declarations describing the same underlying type.
type TypeDeclaration struct {
	QualifiedName string
	SimpleName    string
	Kind          TypeKind
	Components    []Component // record kinds only
	Origin        string      // name of the solver that produced it
}

// TypeSolver maps a qualified (or well-known simple) type name to its
// declaration.
type TypeSolver interface {
	Name() string
	Solve(qualifiedName string) (*TypeDeclaration, error)
}

// UnsolvedTypeError reports that no configured backend could supply the
// type. Tried lists the backends in the order they were consulted.
type UnsolvedTypeError struct {
	TypeName string
	Tried    []string
}

func (e *UnsolvedTypeError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("unsolved type %s", e.TypeName)
	}
	return fmt.Sprintf("unsolved type %s (tried %s)", e.TypeName, strings.Join(e.Tried, ", "))
}

// CombinedSolver consults an ordered list of backends and returns the
// first success. When every backend fails the failures aggregate into a
// single UnsolvedTypeError.
type CombinedSolver struct {
	solvers []TypeSolver
}

// NewCombinedSolver builds a combined solver trying backends in the given
// priority order.
func NewCombinedSolver(solvers ...TypeSolver) *CombinedSolver {
	return &CombinedSolver{solvers: solvers}
}

// Add appends a backend with the lowest priority.
func (c *CombinedSolver) Add(s TypeSolver) {
	c.solvers = append(c.solvers, s)
}

func (c *CombinedSolver) Name() string {
	names := make([]string, 0, len(c.solvers))
	for _, s := range c.solvers {
		names = append(names, s.Name())
	}
	return "combined(" + strings.Join(names, ",") + ")"
}

func (c *CombinedSolver) Solve(qualifiedName string) (*TypeDeclaration, error) {
	tried := make([]string, 0, len(c.solvers))
	for _, s := range c.solvers {
		decl, err := s.Solve(qualifiedName)
		if err == nil {
			return decl, nil
		}
		tried = append(tried, s.Name())
	}
	return nil, &UnsolvedTypeError{TypeName: qualifiedName, Tried: tried}
}
