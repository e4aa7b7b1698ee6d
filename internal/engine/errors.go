package engine

import (
	"fmt"

	"javasym/internal/tree"
)

// UnnamedVariableMessage is the diagnostic wording for a reference to the
// unnamed binder. The language-level validator emits the same text, so the
// two code paths stay in agreement.
const UnnamedVariableMessage = "Unnamed variable '_' cannot be referenced"

// UnresolvedSymbolError reports that no declaration matches the name in
// any enclosing scope.
type UnresolvedSymbolError struct {
	Name string
	Pos  tree.Position
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("%s Unresolved symbol '%s'", e.Pos, e.Name)
}

// UnnamedVariableError reports a use-site reference that resolved to the
// unnamed binder. The binder exists; it simply cannot be read. Distinct
// from UnresolvedSymbolError so tooling can offer different fixes.
type UnnamedVariableError struct {
	Pos tree.Position
}

func (e *UnnamedVariableError) Error() string {
	return fmt.Sprintf("%s %s", e.Pos, UnnamedVariableMessage)
}
