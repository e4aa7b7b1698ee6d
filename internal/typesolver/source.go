package typesolver

import (
	"io/fs"
	"path/filepath"
	"strings"

	"javasym/internal/tree"
)

// SourceSolver finds types by walking other parsed trees in the project:
// every class, interface, record and enum declaration under the
// configured source roots becomes solvable by qualified or simple name.
type SourceSolver struct {
	byQualified map[string]*TypeDeclaration
	bySimple    map[string]*TypeDeclaration
}

// NewSourceSolver creates an empty solver. Populate it with AddRoot or
// AddTree.
func NewSourceSolver() *SourceSolver {
	return &SourceSolver{
		byQualified: make(map[string]*TypeDeclaration),
		bySimple:    make(map[string]*TypeDeclaration),
	}
}

// AddRoot scans a directory tree for .java files and indexes every type
// declaration found. Files that fail to parse are skipped rather than
// failing the whole scan.
func (s *SourceSolver) AddRoot(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "target", "build":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".java") {
			return nil
		}
		f, err := tree.ParseFile(path)
		if err != nil {
			return nil
		}
		s.AddTree(f)
		return nil
	})
}

// AddTree indexes the type declarations of one parsed file.
func (s *SourceSolver) AddTree(f *tree.SourceFile) {
	pkg := packageName(f)
	f.Root().Walk(func(n *tree.Node) bool {
		var kind TypeKind
		switch n.Kind() {
		case tree.KindClassDecl:
			kind = KindClass
		case tree.KindInterfaceDecl:
			kind = KindInterface
		case tree.KindRecordDecl:
			kind = KindRecord
		case tree.KindEnumDecl:
			kind = KindEnum
		default:
			return true
		}
		name := n.ChildByField("name")
		if name == nil {
			return true
		}
		decl := &TypeDeclaration{
			SimpleName: name.Text(),
			Kind:       kind,
			Origin:     "source",
		}
		decl.QualifiedName = decl.SimpleName
		if pkg != "" {
			decl.QualifiedName = pkg + "." + decl.SimpleName
		}
		if kind == KindRecord {
			decl.Components = recordComponents(n)
		}
		s.register(decl)
		return true
	})
}

func (s *SourceSolver) register(decl *TypeDeclaration) {
	s.byQualified[decl.QualifiedName] = decl
	if _, ok := s.bySimple[decl.SimpleName]; !ok {
		s.bySimple[decl.SimpleName] = decl
	}
}

func (s *SourceSolver) Name() string {
	return "source"
}

func (s *SourceSolver) Solve(qualifiedName string) (*TypeDeclaration, error) {
	if decl, ok := s.byQualified[qualifiedName]; ok {
		return decl, nil
	}
	if decl, ok := s.bySimple[qualifiedName]; ok {
		return decl, nil
	}
	return nil, &UnsolvedTypeError{TypeName: qualifiedName, Tried: []string{s.Name()}}
}

// Types returns every indexed declaration, for index persistence.
func (s *SourceSolver) Types() []*TypeDeclaration {
	out := make([]*TypeDeclaration, 0, len(s.byQualified))
	for _, decl := range s.byQualified {
		out = append(out, decl)
	}
	return out
}

func packageName(f *tree.SourceFile) string {
	var pkg string
	f.Root().Walk(func(n *tree.Node) bool {
		if n.Kind() == "package_declaration" {
			for _, child := range n.NamedChildren() {
				switch child.Kind() {
				case "scoped_identifier", tree.KindIdentifier:
					pkg = child.Text()
				}
			}
			return false
		}
		return n.Kind() == tree.KindProgram
	})
	return pkg
}

func recordComponents(record *tree.Node) []Component {
	params := record.ChildByField("parameters")
	if params == nil {
		return nil
	}
	var out []Component
	for _, p := range params.NamedChildren() {
		if p.Kind() != tree.KindFormalParam {
			continue
		}
		typ := p.ChildByField("type")
		name := p.ChildByField("name")
		if typ == nil || name == nil {
			continue
		}
		out = append(out, Component{Name: name.Text(), Type: typ.Text()})
	}
	return out
}
