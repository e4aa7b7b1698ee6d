package engine

import (
	"javasym/internal/scope"
	"javasym/internal/tree"
)

// Duplicates checks every declaration list in the file for two non-unnamed
// declarations of one name in the same scope. The check runs at
// scope-build time, independent of any reference: shadowing across nested
// scopes is permitted and never reported, and the unnamed binder may
// repeat freely.
func Duplicates(f *tree.SourceFile) []error {
	var errs []error
	f.Root().Walk(func(n *tree.Node) bool {
		switch n.Kind() {
		case tree.KindBlock:
			errs = append(errs, checkSiblings(n, blockDeclarators(n))...)
		case "class_body", "interface_body":
			errs = append(errs, checkSiblings(n, fieldDeclarators(n))...)
		case "formal_parameters":
			errs = append(errs, checkSiblings(n, paramNames(n))...)
		case tree.KindInferredParams:
			errs = append(errs, checkSiblings(n, identifierChildren(n))...)
		case "resource_specification":
			errs = append(errs, checkSiblings(n, resourceNames(n))...)
		}
		return true
	})
	return errs
}

type siblingDecl struct {
	name string
	typ  string
	pos  tree.Position
}

func checkSiblings(owner *tree.Node, decls []siblingDecl) []error {
	table := scope.NewTable()
	sid := table.NewScope(scope.KindBlock, table.Root())
	var errs []error
	for _, d := range decls {
		if _, err := table.Declare(sid, d.name, d.typ, d.pos); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func blockDeclarators(block *tree.Node) []siblingDecl {
	var out []siblingDecl
	for _, stmt := range block.NamedChildren() {
		if stmt.Kind() == tree.KindLocalVarDecl {
			out = append(out, declaratorNames(stmt)...)
		}
	}
	return out
}

// fieldDeclarators collects the field (or interface constant) names a
// type body declares; they share one member scope regardless of order.
func fieldDeclarators(body *tree.Node) []siblingDecl {
	var out []siblingDecl
	for _, member := range body.NamedChildren() {
		switch member.Kind() {
		case tree.KindFieldDecl, "constant_declaration":
			out = append(out, declaratorNames(member)...)
		}
	}
	return out
}

func declaratorNames(decl *tree.Node) []siblingDecl {
	typ := textOf(decl.ChildByField("type"))
	var out []siblingDecl
	for _, child := range decl.NamedChildren() {
		if child.Kind() != tree.KindVarDeclarator {
			continue
		}
		if name := child.ChildByField("name"); name != nil {
			out = append(out, siblingDecl{name: name.Text(), typ: typ, pos: name.Pos()})
		}
	}
	return out
}

func paramNames(params *tree.Node) []siblingDecl {
	var out []siblingDecl
	for _, p := range params.NamedChildren() {
		switch p.Kind() {
		case tree.KindFormalParam, "spread_parameter":
			name := p.ChildByField("name")
			if name == nil {
				name = lastIdentifier(p)
			}
			if name != nil {
				out = append(out, siblingDecl{name: name.Text(), typ: textOf(p.ChildByField("type")), pos: name.Pos()})
			}
		}
	}
	return out
}

func identifierChildren(n *tree.Node) []siblingDecl {
	var out []siblingDecl
	for _, child := range n.NamedChildren() {
		if child.IsIdentifier() {
			out = append(out, siblingDecl{name: child.Text(), pos: child.Pos()})
		}
	}
	return out
}

func resourceNames(resources *tree.Node) []siblingDecl {
	var out []siblingDecl
	for _, res := range resources.NamedChildren() {
		if res.Kind() != tree.KindResource {
			continue
		}
		if name := res.ChildByField("name"); name != nil {
			out = append(out, siblingDecl{name: name.Text(), typ: textOf(res.ChildByField("type")), pos: name.Pos()})
		}
	}
	return out
}
