package tree

// Grammar node kinds the resolver dispatches on. Kept in one place so the
// scope construction switch and the classifiers agree.
const (
	KindIdentifier        = "identifier"
	KindTypeIdentifier    = "type_identifier"
	KindProgram           = "program"
	KindClassDecl         = "class_declaration"
	KindInterfaceDecl     = "interface_declaration"
	KindRecordDecl        = "record_declaration"
	KindEnumDecl          = "enum_declaration"
	KindMethodDecl        = "method_declaration"
	KindConstructorDecl   = "constructor_declaration"
	KindFieldDecl         = "field_declaration"
	KindBlock             = "block"
	KindLocalVarDecl      = "local_variable_declaration"
	KindVarDeclarator     = "variable_declarator"
	KindFormalParam       = "formal_parameter"
	KindInferredParams    = "inferred_parameters"
	KindForStmt           = "for_statement"
	KindEnhancedForStmt   = "enhanced_for_statement"
	KindTryWithResources  = "try_with_resources_statement"
	KindResource          = "resource"
	KindCatchClause       = "catch_clause"
	KindCatchFormalParam  = "catch_formal_parameter"
	KindLambda            = "lambda_expression"
	KindIfStmt            = "if_statement"
	KindInstanceof        = "instanceof_expression"
	KindUnaryExpr         = "unary_expression"
	KindTypePattern       = "type_pattern"
	KindRecordPattern     = "record_pattern"
	KindRecordPatternBody = "record_pattern_body"
	KindRecordPatternComp = "record_pattern_component"
	KindUnderscorePattern = "underscore_pattern"
	KindSwitchExpr        = "switch_expression"
	KindSwitchBlock       = "switch_block"
	KindSwitchRule        = "switch_rule"
	KindSwitchGroup       = "switch_block_statement_group"
	KindSwitchLabel       = "switch_label"
	KindGuard             = "guard"
)

// namedDeclParents lists node kinds that declare exactly the identifier
// held in their "name" field. Other identifier children of these nodes,
// such as a declarator's initializer, are ordinary references.
var namedDeclParents = map[string]bool{
	KindVarDeclarator:   true,
	KindFormalParam:     true,
	KindResource:        true,
	KindEnhancedForStmt: true,
	KindMethodDecl:      true,
	KindConstructorDecl: true,
	KindClassDecl:       true,
	KindInterfaceDecl:   true,
	KindRecordDecl:      true,
	KindEnumDecl:        true,
	"enum_constant":     true,
}

// IsIdentifier reports whether the node is a plain identifier token.
func (n *Node) IsIdentifier() bool {
	return n.Kind() == KindIdentifier
}

// IsUnnamedBinder reports whether the node is the `_` placeholder, either
// as an identifier token or as an underscore pattern.
func (n *Node) IsUnnamedBinder() bool {
	if n.Kind() == KindUnderscorePattern {
		return true
	}
	return n.IsIdentifier() && n.Text() == UnnamedBinder
}

// IsDeclarationSite reports whether an identifier introduces a name: a
// variable declarator, a parameter, a catch parameter, a try resource, an
// enhanced-for element, a pattern binding or a member name.
func (n *Node) IsDeclarationSite() bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	if namedDeclParents[parent.Kind()] {
		name := parent.ChildByField("name")
		return name != nil && name.Same(n)
	}
	switch parent.Kind() {
	case KindInferredParams:
		return true
	case KindInstanceof:
		// The pattern binder of `x instanceof String s`.
		_, binder := parent.InstanceofParts()
		return binder != nil && binder.Same(n)
	case KindTypePattern, KindRecordPatternComp:
		return isTrailingBinder(parent, n)
	case KindCatchFormalParam:
		if name := parent.ChildByField("name"); name != nil {
			return name.Same(n)
		}
		return isTrailingBinder(parent, n)
	case KindLambda:
		// A single-identifier lambda parameter, as in `x -> x + 1`.
		params := parent.ChildByField("parameters")
		return params != nil && params.Same(n)
	}
	return false
}

// InstanceofParts splits an instanceof expression into its tested type
// and pattern binder nodes. The grammar keeps the binder as a trailing
// child after the type; it is nil for a plain type test.
func (n *Node) InstanceofParts() (typ, binder *Node) {
	if n.Kind() != KindInstanceof {
		return nil, nil
	}
	kids := n.NamedChildren()
	if len(kids) < 2 {
		return nil, nil
	}
	typ = n.ChildByField("right")
	if typ == nil {
		typ = kids[1]
	}
	last := kids[len(kids)-1]
	if len(kids) >= 3 && !last.Same(typ) &&
		(last.IsIdentifier() || last.Kind() == KindUnderscorePattern) {
		binder = last
	}
	return typ, binder
}

// isTrailingBinder reports whether n is the declared name of a
// type-and-name construct: the last named child, after the written type.
func isTrailingBinder(parent, n *Node) bool {
	kids := parent.NamedChildren()
	if len(kids) == 0 {
		return false
	}
	last := kids[len(kids)-1]
	if !last.IsIdentifier() && last.Kind() != KindUnderscorePattern {
		return false
	}
	return last.Same(n)
}

// IsNameReference reports whether the node is an identifier used as a
// reference (a use-site), as opposed to a declared name.
func (n *Node) IsNameReference() bool {
	return n.IsIdentifier() && !n.IsDeclarationSite()
}

// IsPattern reports whether the node is a type-test, record deconstruction
// or underscore pattern.
func (n *Node) IsPattern() bool {
	switch n.Kind() {
	case KindTypePattern, KindRecordPattern, KindUnderscorePattern:
		return true
	}
	return false
}

// NameReferences returns every use-site identifier with the given text,
// in document order. Handy for tooling and tests that address a reference
// by its spelling.
func (f *SourceFile) NameReferences(name string) []*Node {
	var out []*Node
	f.Root().Walk(func(n *Node) bool {
		if n.IsIdentifier() && n.Text() == name && n.IsNameReference() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// NameReference returns the first use-site identifier with the given text,
// or nil if the file contains none.
func (f *SourceFile) NameReference(name string) *Node {
	refs := f.NameReferences(name)
	if len(refs) == 0 {
		return nil
	}
	return refs[0]
}
