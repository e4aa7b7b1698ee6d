package typesolver

import (
	"archive/zip"
	"fmt"
	"strings"
)

// ArchiveSolver answers by membership in a packaged bundle: the .class
// entries of a jar (or any zip) define the solvable universe. Only type
// identity is available from an entry listing; archives never contribute
// record components.
type ArchiveSolver struct {
	path        string
	byQualified map[string]*TypeDeclaration
	bySimple    map[string]*TypeDeclaration
}

// NewArchiveSolver indexes the class entries of the archive at path.
func NewArchiveSolver(path string) (*ArchiveSolver, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer r.Close()

	a := &ArchiveSolver{
		path:        path,
		byQualified: make(map[string]*TypeDeclaration),
		bySimple:    make(map[string]*TypeDeclaration),
	}
	for _, entry := range r.File {
		name := entry.Name
		if !strings.HasSuffix(name, ".class") || strings.Contains(name, "$") {
			continue
		}
		qualified := strings.ReplaceAll(strings.TrimSuffix(name, ".class"), "/", ".")
		simple := qualified[strings.LastIndex(qualified, ".")+1:]
		decl := &TypeDeclaration{
			QualifiedName: qualified,
			SimpleName:    simple,
			Kind:          KindClass,
			Origin:        "archive:" + path,
		}
		a.byQualified[qualified] = decl
		if _, ok := a.bySimple[simple]; !ok {
			a.bySimple[simple] = decl
		}
	}
	return a, nil
}

func (a *ArchiveSolver) Name() string {
	return "archive:" + a.path
}

func (a *ArchiveSolver) Solve(qualifiedName string) (*TypeDeclaration, error) {
	if decl, ok := a.byQualified[qualifiedName]; ok {
		return decl, nil
	}
	if decl, ok := a.bySimple[qualifiedName]; ok {
		return decl, nil
	}
	return nil, &UnsolvedTypeError{TypeName: qualifiedName, Tried: []string{a.Name()}}
}
