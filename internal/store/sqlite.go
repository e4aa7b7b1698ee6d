package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"javasym/internal/typesolver"

	_ "github.com/mattn/go-sqlite3"
)

// TypeIndex persists type declarations found under source roots so later
// runs can solve them without re-walking the sources. It indexes
// declarations, never resolution results: the resolution cache stays
// in-memory.
type TypeIndex struct {
	db *sql.DB
}

// Open creates or opens the index database at path.
func Open(path string) (*TypeIndex, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &TypeIndex{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *TypeIndex) Close() error {
	return s.db.Close()
}

func (s *TypeIndex) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS types (
			qualified_name TEXT PRIMARY KEY,
			simple_name TEXT,
			kind TEXT,
			components JSON
		);`,
		`CREATE INDEX IF NOT EXISTS idx_types_simple ON types(simple_name);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Save upserts type declarations in one transaction.
func (s *TypeIndex) Save(ctx context.Context, decls []*typesolver.TypeDeclaration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO types (qualified_name, simple_name, kind, components)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(qualified_name) DO UPDATE SET
			simple_name=excluded.simple_name,
			kind=excluded.kind,
			components=excluded.components
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, decl := range decls {
		components, _ := json.Marshal(decl.Components)
		if _, err := stmt.ExecContext(ctx, decl.QualifiedName, decl.SimpleName, string(decl.Kind), components); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Lookup finds a declaration by qualified name, falling back to simple
// name.
func (s *TypeIndex) Lookup(ctx context.Context, name string) (*typesolver.TypeDeclaration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT qualified_name, simple_name, kind, components FROM types
		WHERE qualified_name = ? OR simple_name = ?
		ORDER BY qualified_name = ? DESC
		LIMIT 1
	`, name, name, name)

	var decl typesolver.TypeDeclaration
	var kind, components string
	if err := row.Scan(&decl.QualifiedName, &decl.SimpleName, &kind, &components); err != nil {
		if err == sql.ErrNoRows {
			return nil, &typesolver.UnsolvedTypeError{TypeName: name, Tried: []string{"index"}}
		}
		return nil, err
	}
	decl.Kind = typesolver.TypeKind(kind)
	decl.Origin = "index"
	if components != "" {
		_ = json.Unmarshal([]byte(components), &decl.Components)
	}
	return &decl, nil
}

// IndexedSolver adapts a TypeIndex to the TypeSolver capability.
type IndexedSolver struct {
	index *TypeIndex
}

// NewIndexedSolver wraps an open index.
func NewIndexedSolver(index *TypeIndex) *IndexedSolver {
	return &IndexedSolver{index: index}
}

func (s *IndexedSolver) Name() string {
	return "index"
}

func (s *IndexedSolver) Solve(qualifiedName string) (*typesolver.TypeDeclaration, error) {
	return s.index.Lookup(context.Background(), qualifiedName)
}
