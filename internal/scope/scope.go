package scope

import (
	"fmt"

	"javasym/internal/tree"
)

// Kind identifies the construct that opened a scope. Each kind carries its
// own visibility rule, applied by the resolution engine when the chain is
// built.
type Kind string

const (
	KindCompilationUnit Kind = "compilation_unit"
	KindClassBody       Kind = "class_body"
	KindMethodBody      Kind = "method_body"
	KindLambdaBody      Kind = "lambda_body"
	KindBlock           Kind = "block"
	KindForHeader       Kind = "for_header"
	KindForEachHeader   Kind = "foreach_header"
	KindTryResources    Kind = "try_resources"
	KindCatchClause     Kind = "catch_clause"
	KindPatternBranch   Kind = "pattern_branch"
	KindSwitchRule      Kind = "switch_rule"
)

// ScopeID and DeclID index into a Table's arenas. The zero ScopeID is the
// root; NoScope/NoDecl mark absent back-references.
type (
	ScopeID int
	DeclID  int
)

const (
	NoScope ScopeID = -1
	NoDecl  DeclID  = -1
)

// Declaration is a resolved entity introduced into a scope: a variable,
// parameter, pattern binding or type. Declarations are immutable once
// recorded.
type Declaration struct {
	ID    DeclID
	Name  string // tree.UnnamedBinder for the unnamed binder
	Type  string // declared type, possibly qualified, empty when inferred
	Pos   tree.Position
	Scope ScopeID // owning scope, back-reference only
}

// Unnamed reports whether this declaration is the unnamed binder.
func (d *Declaration) Unnamed() bool {
	return d.Name == tree.UnnamedBinder
}

// DuplicateDeclarationError reports a second non-unnamed declaration of a
// name within a single scope.
type DuplicateDeclarationError struct {
	Name string
	Pos  tree.Position
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("%s Duplicate declaration of '%s'", e.Pos, e.Name)
}

type scopeRec struct {
	kind   Kind
	parent ScopeID
	decls  []DeclID
}

// Table is the arena holding every scope and declaration derived from one
// tree. Scopes form a tree rooted at the compilation-unit scope; parents
// are integer back-references, so the structure cannot cycle. A Table is
// append-only while the chain is built and read-only afterwards.
type Table struct {
	scopes []scopeRec
	decls  []Declaration
}

// NewTable creates a table seeded with the root compilation-unit scope.
func NewTable() *Table {
	t := &Table{}
	t.scopes = append(t.scopes, scopeRec{kind: KindCompilationUnit, parent: NoScope})
	return t
}

// Root returns the compilation-unit scope.
func (t *Table) Root() ScopeID {
	return 0
}

// NewScope appends a child scope of the given kind.
func (t *Table) NewScope(kind Kind, parent ScopeID) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, scopeRec{kind: kind, parent: parent})
	return id
}

// KindOf returns the kind of a scope.
func (t *Table) KindOf(id ScopeID) Kind {
	return t.scopes[id].kind
}

// Parent returns the enclosing scope, or NoScope at the root.
func (t *Table) Parent(id ScopeID) ScopeID {
	return t.scopes[id].parent
}

// Declare introduces a name into a scope. A non-unnamed name may appear at
// most once per scope; the unnamed binder never conflicts, with itself or
// across repeats.
func (t *Table) Declare(id ScopeID, name, declaredType string, pos tree.Position) (DeclID, error) {
	if name != tree.UnnamedBinder {
		for _, did := range t.scopes[id].decls {
			if t.decls[did].Name == name {
				return NoDecl, &DuplicateDeclarationError{Name: name, Pos: pos}
			}
		}
	}
	did := DeclID(len(t.decls))
	t.decls = append(t.decls, Declaration{
		ID:    did,
		Name:  name,
		Type:  declaredType,
		Pos:   pos,
		Scope: id,
	})
	t.scopes[id].decls = append(t.scopes[id].decls, did)
	return did, nil
}

// Decl returns the declaration record for an id.
func (t *Table) Decl(id DeclID) *Declaration {
	return &t.decls[id]
}

// Lookup walks from the given scope outward through parents and returns
// the first declaration matching the name. The unnamed binder is returned
// as found; whether referencing it is legal is the caller's judgment.
func (t *Table) Lookup(id ScopeID, name string) (DeclID, bool) {
	for s := id; s != NoScope; s = t.scopes[s].parent {
		// Later declarations shadow earlier ones within a scope, so scan
		// in reverse insertion order.
		decls := t.scopes[s].decls
		for i := len(decls) - 1; i >= 0; i-- {
			if t.decls[decls[i]].Name == name {
				return decls[i], true
			}
		}
	}
	return NoDecl, false
}

// VisibleAt enumerates every declaration visible from a scope, nearest
// first, with shadowed names suppressed. The unnamed binder is never
// visible.
func (t *Table) VisibleAt(id ScopeID) []DeclID {
	seen := make(map[string]bool)
	var out []DeclID
	for s := id; s != NoScope; s = t.scopes[s].parent {
		decls := t.scopes[s].decls
		for i := len(decls) - 1; i >= 0; i-- {
			d := &t.decls[decls[i]]
			if d.Unnamed() || seen[d.Name] {
				continue
			}
			seen[d.Name] = true
			out = append(out, decls[i])
		}
	}
	return out
}
