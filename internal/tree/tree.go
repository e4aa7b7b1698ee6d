package tree

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// UnnamedBinder is the placeholder name a declaration may use when its
// value is deliberately discarded. It can be declared any number of times
// but never referenced.
const UnnamedBinder = "_"

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("(line %d,col %d)", p.Line, p.Col)
}

// SourceFile is an immutable parsed Java source file. Navigation never
// mutates the underlying tree, so a SourceFile is safe for concurrent
// read-only use.
type SourceFile struct {
	Path string
	id   uint64
	src  []byte
	tree *sitter.Tree
}

// fileSeq hands out tree identities. Paths cannot serve that role: many
// trees share one path, or have none at all.
var fileSeq atomic.Uint64

// Parse parses Java source held in memory.
func Parse(src []byte) (*SourceFile, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	t, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	return &SourceFile{id: fileSeq.Add(1), src: src, tree: t}, nil
}

// ParseFile reads and parses a Java source file from disk.
func ParseFile(path string) (*SourceFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	f, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Root returns the compilation-unit node.
func (f *SourceFile) Root() *Node {
	return &Node{inner: f.tree.RootNode(), file: f}
}

// Source returns the raw bytes the tree was parsed from.
func (f *SourceFile) Source() []byte {
	return f.src
}

// ID returns a process-unique identity for this parsed tree.
func (f *SourceFile) ID() uint64 {
	return f.id
}

// Node wraps a tree-sitter node together with its owning file so that
// text and position queries need no extra arguments.
type Node struct {
	inner *sitter.Node
	file  *SourceFile
}

func (n *Node) wrap(inner *sitter.Node) *Node {
	if inner == nil {
		return nil
	}
	return &Node{inner: inner, file: n.file}
}

// Kind returns the grammar node type, e.g. "identifier" or "block".
func (n *Node) Kind() string {
	return n.inner.Type()
}

// Text returns the source text covered by the node.
func (n *Node) Text() string {
	return n.inner.Content(n.file.src)
}

// Pos returns the node's 1-based start position.
func (n *Node) Pos() Position {
	p := n.inner.StartPoint()
	return Position{Line: int(p.Row) + 1, Col: int(p.Column) + 1}
}

// EndPos returns the node's 1-based end position.
func (n *Node) EndPos() Position {
	p := n.inner.EndPoint()
	return Position{Line: int(p.Row) + 1, Col: int(p.Column) + 1}
}

// StartByte returns the byte offset where the node's extent begins.
func (n *Node) StartByte() int {
	return int(n.inner.StartByte())
}

// EndByte returns the byte offset just past the node's extent.
func (n *Node) EndByte() int {
	return int(n.inner.EndByte())
}

// Contains reports whether the byte offset falls inside the node's extent.
func (n *Node) Contains(offset int) bool {
	return offset >= n.StartByte() && offset < n.EndByte()
}

// File returns the source file owning this node.
func (n *Node) File() *SourceFile {
	return n.file
}

// Parent returns the enclosing node, or nil at the root.
func (n *Node) Parent() *Node {
	return n.wrap(n.inner.Parent())
}

// ChildByField returns the named-field child, or nil.
func (n *Node) ChildByField(field string) *Node {
	return n.wrap(n.inner.ChildByFieldName(field))
}

// NamedChildren returns all named children in order.
func (n *Node) NamedChildren() []*Node {
	count := int(n.inner.NamedChildCount())
	out := make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.wrap(n.inner.NamedChild(i)))
	}
	return out
}

// Walk visits the node and every descendant in depth-first order. The
// visitor returns false to prune the subtree.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.NamedChildren() {
		child.Walk(visit)
	}
}

// Ancestors returns the chain of enclosing nodes, nearest first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// Same reports whether two wrappers denote the same underlying node.
func (n *Node) Same(other *Node) bool {
	if other == nil {
		return false
	}
	return n.inner.Equal(other.inner)
}
