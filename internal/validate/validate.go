package validate

import (
	"errors"
	"fmt"

	"javasym/internal/engine"
	"javasym/internal/scope"
	"javasym/internal/tree"
)

// Problem is a single diagnostic in `(line L,col C) message` form.
type Problem struct {
	Pos     tree.Position
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %s", p.Pos, p.Message)
}

// Validator inspects a parsed file and reports problems. Validators never
// mutate the tree and never run resolution; they gate which syntax is
// accepted before any analysis happens.
type Validator interface {
	Name() string
	Validate(f *tree.SourceFile) []Problem
}

// Pipeline runs validators in order and concatenates their problems.
type Pipeline struct {
	validators []Validator
}

// NewPipeline builds a pipeline over the given validators.
func NewPipeline(validators ...Validator) *Pipeline {
	return &Pipeline{validators: validators}
}

// NewDefaultPipeline covers the checks the resolver assumes have run.
func NewDefaultPipeline() *Pipeline {
	return NewPipeline(
		UnnamedVariableReference{},
		DuplicateDeclarations{},
	)
}

// Run validates the file and returns every problem found.
func (p *Pipeline) Run(f *tree.SourceFile) []Problem {
	var out []Problem
	for _, v := range p.validators {
		out = append(out, v.Validate(f)...)
	}
	return out
}

// UnnamedVariableReference flags every use-site occurrence of the unnamed
// binder. It re-derives the resolver's judgment from node classification
// alone, so the check works when no resolution pass runs; wording and
// position match the resolver's diagnostic exactly.
type UnnamedVariableReference struct{}

func (UnnamedVariableReference) Name() string {
	return "unnamed-variable-reference"
}

func (UnnamedVariableReference) Validate(f *tree.SourceFile) []Problem {
	var out []Problem
	f.Root().Walk(func(n *tree.Node) bool {
		if n.IsUnnamedBinder() && n.IsNameReference() {
			out = append(out, Problem{Pos: n.Pos(), Message: engine.UnnamedVariableMessage})
		}
		return true
	})
	return out
}

// DuplicateDeclarations flags two non-unnamed declarations of one name in
// a single scope.
type DuplicateDeclarations struct{}

func (DuplicateDeclarations) Name() string {
	return "duplicate-declarations"
}

func (DuplicateDeclarations) Validate(f *tree.SourceFile) []Problem {
	var out []Problem
	for _, err := range engine.Duplicates(f) {
		var dup *scope.DuplicateDeclarationError
		if errors.As(err, &dup) {
			out = append(out, Problem{
				Pos:     dup.Pos,
				Message: fmt.Sprintf("Duplicate declaration of '%s'", dup.Name),
			})
		}
	}
	return out
}
