package engine

import (
	"javasym/internal/scope"
	"javasym/internal/tree"
)

// buildChain constructs the lexical scope chain for the reference node,
// outermost scope first, honoring each construct's visibility rule. The
// chain is a derived view of the tree: rebuilding it is idempotent and
// never mutates the tree.
func (r *Resolver) buildChain(ref *tree.Node) (*scope.Table, scope.ScopeID) {
	table := scope.NewTable()
	refOff := ref.StartByte()
	current := table.Root()

	ancestors := ref.Ancestors()
	for i := len(ancestors) - 1; i >= 0; i-- {
		anc := ancestors[i]
		switch anc.Kind() {
		case tree.KindProgram:
			declareTopLevelTypes(table, current, anc)

		case tree.KindClassDecl, tree.KindInterfaceDecl, tree.KindRecordDecl, tree.KindEnumDecl:
			current = table.NewScope(scope.KindClassBody, current)
			declareMembers(table, current, anc)

		case tree.KindMethodDecl, tree.KindConstructorDecl:
			current = table.NewScope(scope.KindMethodBody, current)
			declareParams(table, current, anc.ChildByField("parameters"))

		case tree.KindBlock:
			current = table.NewScope(scope.KindBlock, current)
			declareLocals(table, current, anc, refOff)

		case tree.KindForStmt:
			// The basic for header extends over condition, update and body.
			current = table.NewScope(scope.KindForHeader, current)
			if init := anc.ChildByField("init"); init != nil && init.Kind() == tree.KindLocalVarDecl {
				declareDeclarators(table, current, init)
			}

		case tree.KindEnhancedForStmt:
			// The element variable binds over the body only, not the
			// iterable expression.
			if body := anc.ChildByField("body"); body != nil && body.Contains(refOff) {
				current = table.NewScope(scope.KindForEachHeader, current)
				name := anc.ChildByField("name")
				typ := anc.ChildByField("type")
				if name != nil {
					declare(table, current, name.Text(), textOf(typ), name.Pos())
				}
			}

		case tree.KindTryWithResources:
			// Each resource binds over subsequent resources and the body.
			current = table.NewScope(scope.KindTryResources, current)
			if resources := anc.ChildByField("resources"); resources != nil {
				for _, res := range resources.NamedChildren() {
					if res.Kind() != tree.KindResource || res.EndByte() > refOff {
						continue
					}
					name := res.ChildByField("name")
					typ := res.ChildByField("type")
					if name != nil {
						declare(table, current, name.Text(), textOf(typ), name.Pos())
					}
				}
			}

		case tree.KindCatchClause:
			// The exception parameter binds over the catch body only.
			if body := anc.ChildByField("body"); body != nil && body.Contains(refOff) {
				current = table.NewScope(scope.KindCatchClause, current)
				declareCatchParam(table, current, anc)
			}

		case tree.KindLambda:
			// Lambda parameters bind over the lambda body only.
			if body := anc.ChildByField("body"); body != nil && body.Contains(refOff) {
				current = table.NewScope(scope.KindLambdaBody, current)
				declareLambdaParams(table, current, anc.ChildByField("parameters"))
			}

		case tree.KindIfStmt:
			// A type-test pattern binds over the branch where the test is
			// known to have succeeded: the then branch (else for a negated
			// test), and the remainder of the condition past the test.
			current = r.declareIfPatterns(table, current, anc, refOff)

		case tree.KindSwitchRule, tree.KindSwitchGroup:
			// Arm patterns bind over the arm's guard and its body.
			current = r.declareSwitchArm(table, current, anc, refOff)
		}
	}
	return table, current
}

// declare records a binding, dropping true duplicates: within one chain
// the first declaration of a name wins, and the unnamed binder never
// conflicts. Duplicate reporting is a build-time check, see Duplicates.
func declare(table *scope.Table, id scope.ScopeID, name, typ string, pos tree.Position) {
	_, _ = table.Declare(id, name, typ, pos)
}

func textOf(n *tree.Node) string {
	if n == nil {
		return ""
	}
	return n.Text()
}

func declareTopLevelTypes(table *scope.Table, id scope.ScopeID, program *tree.Node) {
	for _, child := range program.NamedChildren() {
		switch child.Kind() {
		case tree.KindClassDecl, tree.KindInterfaceDecl, tree.KindRecordDecl, tree.KindEnumDecl:
			if name := child.ChildByField("name"); name != nil {
				declare(table, id, name.Text(), name.Text(), name.Pos())
			}
		}
	}
}

// declareMembers adds a type's fields (and record components) to the
// class-body scope. Members are visible regardless of textual order.
func declareMembers(table *scope.Table, id scope.ScopeID, typeDecl *tree.Node) {
	if typeDecl.Kind() == tree.KindRecordDecl {
		declareParams(table, id, typeDecl.ChildByField("parameters"))
	}
	body := typeDecl.ChildByField("body")
	if body == nil {
		return
	}
	for _, member := range body.NamedChildren() {
		if member.Kind() == tree.KindFieldDecl {
			declareDeclarators(table, id, member)
		}
	}
}

func declareParams(table *scope.Table, id scope.ScopeID, params *tree.Node) {
	if params == nil {
		return
	}
	for _, p := range params.NamedChildren() {
		switch p.Kind() {
		case tree.KindFormalParam, "spread_parameter":
			name := p.ChildByField("name")
			typ := p.ChildByField("type")
			if name == nil {
				// A spread parameter keeps its declarator as a plain child.
				name = lastIdentifier(p)
			}
			if name != nil {
				declare(table, id, name.Text(), textOf(typ), name.Pos())
			}
		}
	}
}

func declareLambdaParams(table *scope.Table, id scope.ScopeID, params *tree.Node) {
	if params == nil {
		return
	}
	switch params.Kind() {
	case tree.KindIdentifier:
		declare(table, id, params.Text(), "", params.Pos())
	case tree.KindInferredParams:
		for _, p := range params.NamedChildren() {
			if p.IsIdentifier() {
				declare(table, id, p.Text(), "", p.Pos())
			}
		}
	default:
		declareParams(table, id, params)
	}
}

func declareCatchParam(table *scope.Table, id scope.ScopeID, catchClause *tree.Node) {
	for _, child := range catchClause.NamedChildren() {
		if child.Kind() != tree.KindCatchFormalParam {
			continue
		}
		var typ string
		for _, c := range child.NamedChildren() {
			if c.Kind() == "catch_type" {
				typ = c.Text()
			}
		}
		if name := lastIdentifier(child); name != nil {
			declare(table, id, name.Text(), typ, name.Pos())
		}
		return
	}
}

// declareLocals adds the block's local variable declarations that
// textually precede the reference. Statements enclosing the reference are
// handled by deeper links of the chain.
func declareLocals(table *scope.Table, id scope.ScopeID, block *tree.Node, refOff int) {
	for _, stmt := range block.NamedChildren() {
		if stmt.StartByte() >= refOff {
			break
		}
		if stmt.Kind() == tree.KindLocalVarDecl {
			declareDeclarators(table, id, stmt)
		}
	}
}

// declareDeclarators handles local_variable_declaration and
// field_declaration nodes: one declared type, one or more declarators.
func declareDeclarators(table *scope.Table, id scope.ScopeID, decl *tree.Node) {
	typ := textOf(decl.ChildByField("type"))
	for _, child := range decl.NamedChildren() {
		if child.Kind() != tree.KindVarDeclarator {
			continue
		}
		if name := child.ChildByField("name"); name != nil {
			declare(table, id, name.Text(), typ, name.Pos())
		}
	}
}

// lastIdentifier returns the last direct identifier child, the position
// where declarator names sit in parameter-like constructs.
func lastIdentifier(n *tree.Node) *tree.Node {
	var out *tree.Node
	for _, child := range n.NamedChildren() {
		if child.IsIdentifier() {
			out = child
		}
	}
	return out
}
