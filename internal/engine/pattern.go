package engine

import (
	"strings"

	"javasym/internal/scope"
	"javasym/internal/tree"
)

// declareIfPatterns opens a pattern-branch scope for an if statement when
// the reference sits where the type test is known to have succeeded. A
// plain test binds over the then branch, a negated test over the else
// branch, and either binds over the part of the condition past the test
// itself.
func (r *Resolver) declareIfPatterns(table *scope.Table, current scope.ScopeID, ifStmt *tree.Node, refOff int) scope.ScopeID {
	cond := ifStmt.ChildByField("condition")
	if cond == nil {
		return current
	}
	cons := ifStmt.ChildByField("consequence")
	alt := ifStmt.ChildByField("alternative")
	inThen := cons != nil && cons.Contains(refOff)
	inElse := alt != nil && alt.Contains(refOff)

	var matched []*tree.Node
	for _, p := range topLevelPatterns(cond) {
		succeeds := !negated(p, cond)
		switch {
		case inThen:
			if succeeds {
				matched = append(matched, p)
			}
		case inElse:
			if !succeeds {
				matched = append(matched, p)
			}
		case cond.Contains(refOff):
			if p.EndByte() <= refOff {
				matched = append(matched, p)
			}
		}
	}
	if len(matched) == 0 {
		return current
	}
	sid := table.NewScope(scope.KindPatternBranch, current)
	for _, p := range matched {
		r.declarePattern(table, sid, p, "")
	}
	return sid
}

// negated reports whether the test sits under an odd number of logical
// negations within the condition.
func negated(p, cond *tree.Node) bool {
	odd := false
	for anc := p.Parent(); anc != nil && !anc.Same(cond); anc = anc.Parent() {
		if anc.Kind() == tree.KindUnaryExpr && strings.HasPrefix(anc.Text(), "!") {
			odd = !odd
		}
	}
	return odd
}

// declareSwitchArm opens a switch-rule scope holding the arm's pattern
// bindings. The guard expression of a rule is resolved inside the matched
// scope, so bindings are declared for the whole arm, labels included.
func (r *Resolver) declareSwitchArm(table *scope.Table, current scope.ScopeID, arm *tree.Node, refOff int) scope.ScopeID {
	var patterns []*tree.Node
	for _, child := range arm.NamedChildren() {
		if child.Kind() == tree.KindSwitchLabel {
			patterns = append(patterns, topLevelPatterns(child)...)
		}
	}
	if len(patterns) == 0 {
		return current
	}
	sid := table.NewScope(scope.KindSwitchRule, current)
	for _, p := range patterns {
		r.declarePattern(table, sid, p, "")
	}
	return sid
}

// topLevelPatterns collects the outermost binding constructs beneath n:
// pattern nodes, plus instanceof expressions carrying a binder, which the
// grammar leaves as a trailing child rather than a pattern node. Nested
// component patterns are reached recursively by declarePattern, not
// collected here.
func topLevelPatterns(n *tree.Node) []*tree.Node {
	var out []*tree.Node
	n.Walk(func(c *tree.Node) bool {
		if c.IsPattern() {
			out = append(out, c)
			return false
		}
		if c.Kind() == tree.KindInstanceof {
			if _, binder := c.InstanceofParts(); binder != nil {
				out = append(out, c)
			}
			return true
		}
		// Patterns inside a nested lambda body belong to that lambda.
		return c.Kind() != tree.KindLambda
	})
	return out
}

// declarePattern records the bindings a pattern introduces, depth-first
// and left-to-right for deconstruction patterns. componentType is the
// accessor type at this position when the enclosing record is solvable,
// used when the pattern carries no written type of its own.
func (r *Resolver) declarePattern(table *scope.Table, id scope.ScopeID, pattern *tree.Node, componentType string) {
	switch pattern.Kind() {
	case tree.KindTypePattern:
		typ, name := splitTypePattern(pattern)
		declareBinder(table, id, name, typ, componentType)

	case tree.KindInstanceof:
		typ, binder := pattern.InstanceofParts()
		if binder == nil {
			return
		}
		declareBinder(table, id, binder, textOf(typ), componentType)

	case tree.KindUnderscorePattern:
		// Matches anything, binds nothing referenceable. Declared so the
		// use-site diagnostic can distinguish it from an unknown name.
		declare(table, id, tree.UnnamedBinder, componentType, pattern.Pos())

	case tree.KindRecordPattern:
		typeName, body := splitRecordPattern(pattern)
		components := r.recordComponents(typeName)
		if body == nil {
			return
		}
		for i, comp := range body.NamedChildren() {
			accessor := ""
			if i < len(components) {
				accessor = components[i]
			}
			r.declareComponent(table, id, comp, accessor)
		}
	}
}

// declareComponent records the binding of one deconstruction component.
// A component either nests another pattern or carries its own written
// type and binder as plain children.
func (r *Resolver) declareComponent(table *scope.Table, id scope.ScopeID, comp *tree.Node, accessor string) {
	if comp.IsPattern() {
		r.declarePattern(table, id, comp, accessor)
		return
	}
	if comp.Kind() != tree.KindRecordPatternComp {
		return
	}
	for _, child := range comp.NamedChildren() {
		if child.IsPattern() {
			r.declarePattern(table, id, child, accessor)
			return
		}
	}
	typ, name := splitTypePattern(comp)
	declareBinder(table, id, name, typ, accessor)
}

// declareBinder declares a pattern variable, substituting the component
// accessor type when the pattern writes none of its own (or writes var).
func declareBinder(table *scope.Table, id scope.ScopeID, name *tree.Node, typ, componentType string) {
	if name == nil {
		return
	}
	if typ == "" || typ == "var" {
		typ = componentType
	}
	binder := name.Text()
	if name.IsUnnamedBinder() {
		binder = tree.UnnamedBinder
	}
	declare(table, id, binder, typ, name.Pos())
}

// recordComponents returns the component types of a record, in order, or
// nil when the type cannot be solved. Resolution of the pattern's named
// bindings does not depend on it; only typed underscore components do.
func (r *Resolver) recordComponents(typeName string) []string {
	if typeName == "" {
		return nil
	}
	decl, err := r.ResolveType(typeName)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(decl.Components))
	for _, c := range decl.Components {
		out = append(out, c.Type)
	}
	return out
}

// splitTypePattern separates a type pattern into its written type and the
// declarator node.
func splitTypePattern(pattern *tree.Node) (string, *tree.Node) {
	var typ []string
	var name *tree.Node
	for _, child := range pattern.NamedChildren() {
		if child.IsIdentifier() || child.Kind() == tree.KindUnderscorePattern {
			name = child
			continue
		}
		typ = append(typ, child.Text())
	}
	// In `String s` the type itself may scan as a type_identifier, which
	// is not an identifier token; in `var s` nothing precedes the name.
	return strings.Join(typ, "."), name
}

// splitRecordPattern separates a record pattern into the deconstructed
// type name and the component list node.
func splitRecordPattern(pattern *tree.Node) (string, *tree.Node) {
	var typeName string
	var body *tree.Node
	for _, child := range pattern.NamedChildren() {
		if child.Kind() == tree.KindRecordPatternBody {
			body = child
			continue
		}
		if typeName == "" {
			typeName = child.Text()
		}
	}
	if i := strings.IndexByte(typeName, '<'); i >= 0 {
		typeName = typeName[:i]
	}
	return typeName, body
}
