package typesolver

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"javasym/internal/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflectionSolver(t *testing.T) {
	r := NewReflectionSolver()

	t.Run("qualified name", func(t *testing.T) {
		decl, err := r.Solve("java.lang.String")
		require.NoError(t, err)
		assert.Equal(t, "java.lang.String", decl.QualifiedName)
		assert.Equal(t, KindClass, decl.Kind)
	})

	t.Run("well-known simple name", func(t *testing.T) {
		decl, err := r.Solve("Integer")
		require.NoError(t, err)
		assert.Equal(t, "java.lang.Integer", decl.QualifiedName)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := r.Solve("com.example.Missing")
		var unsolved *UnsolvedTypeError
		require.ErrorAs(t, err, &unsolved)
		assert.Equal(t, "com.example.Missing", unsolved.TypeName)
	})

	t.Run("referentially stable", func(t *testing.T) {
		a, err := r.Solve("String")
		require.NoError(t, err)
		b, err := r.Solve("String")
		require.NoError(t, err)
		assert.Same(t, a, b)
	})
}

func TestSourceSolver(t *testing.T) {
	src := []byte(`package com.example;

record Box(InnerBox left, InnerBox right) {}

class InnerBox {}

interface Shape {}
`)
	f, err := tree.Parse(src)
	require.NoError(t, err)

	s := NewSourceSolver()
	s.AddTree(f)

	t.Run("record with components", func(t *testing.T) {
		decl, err := s.Solve("com.example.Box")
		require.NoError(t, err)
		assert.Equal(t, KindRecord, decl.Kind)
		require.Len(t, decl.Components, 2)
		assert.Equal(t, Component{Name: "left", Type: "InnerBox"}, decl.Components[0])
		assert.Equal(t, Component{Name: "right", Type: "InnerBox"}, decl.Components[1])
	})

	t.Run("simple name fallback", func(t *testing.T) {
		decl, err := s.Solve("Shape")
		require.NoError(t, err)
		assert.Equal(t, "com.example.Shape", decl.QualifiedName)
		assert.Equal(t, KindInterface, decl.Kind)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := s.Solve("Elsewhere")
		var unsolved *UnsolvedTypeError
		assert.ErrorAs(t, err, &unsolved)
	})
}

func TestSourceSolverAddRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Widget.java")
	require.NoError(t, os.WriteFile(path, []byte("package app;\nclass Widget {}\n"), 0o644))

	s := NewSourceSolver()
	require.NoError(t, s.AddRoot(dir))

	decl, err := s.Solve("app.Widget")
	require.NoError(t, err)
	assert.Equal(t, "Widget", decl.SimpleName)
}

func TestArchiveSolver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.jar")
	writeArchive(t, path, []string{
		"com/acme/Engine.class",
		"com/acme/Engine$Inner.class",
		"META-INF/MANIFEST.MF",
	})

	a, err := NewArchiveSolver(path)
	require.NoError(t, err)

	decl, err := a.Solve("com.acme.Engine")
	require.NoError(t, err)
	assert.Equal(t, "Engine", decl.SimpleName)

	_, err = a.Solve("com.acme.Engine$Inner")
	assert.Error(t, err, "nested classes are not indexed")

	_, err = a.Solve("com.acme.Missing")
	var unsolved *UnsolvedTypeError
	assert.ErrorAs(t, err, &unsolved)
}

func TestCombinedSolver(t *testing.T) {
	reflection := NewReflectionSolver()

	src := NewSourceSolver()
	f, err := tree.Parse([]byte("package app;\nclass String {}\n"))
	require.NoError(t, err)
	src.AddTree(f)

	t.Run("priority order decides", func(t *testing.T) {
		decl, err := NewCombinedSolver(reflection, src).Solve("String")
		require.NoError(t, err)
		assert.Equal(t, "java.lang.String", decl.QualifiedName)

		decl, err = NewCombinedSolver(src, reflection).Solve("String")
		require.NoError(t, err)
		assert.Equal(t, "app.String", decl.QualifiedName)
	})

	t.Run("failures aggregate", func(t *testing.T) {
		_, err := NewCombinedSolver(reflection, src).Solve("Nowhere")
		var unsolved *UnsolvedTypeError
		require.ErrorAs(t, err, &unsolved)
		assert.Equal(t, []string{"reflection", "source"}, unsolved.Tried)
	})
}

func writeArchive(t *testing.T, path string, entries []string) {
	t.Helper()
	out, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(out)
	for _, entry := range entries {
		_, err := w.Create(entry)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())
}
