package store

import (
	"context"
	"path/filepath"
	"testing"

	"javasym/internal/typesolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *TypeIndex {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "types.db"))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSaveAndLookup(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	decls := []*typesolver.TypeDeclaration{
		{
			QualifiedName: "app.Box",
			SimpleName:    "Box",
			Kind:          typesolver.KindRecord,
			Components: []typesolver.Component{
				{Name: "value", Type: "String"},
			},
		},
		{QualifiedName: "app.Shape", SimpleName: "Shape", Kind: typesolver.KindInterface},
	}
	require.NoError(t, idx.Save(ctx, decls))

	t.Run("by qualified name", func(t *testing.T) {
		decl, err := idx.Lookup(ctx, "app.Box")
		require.NoError(t, err)
		assert.Equal(t, typesolver.KindRecord, decl.Kind)
		require.Len(t, decl.Components, 1)
		assert.Equal(t, "String", decl.Components[0].Type)
		assert.Equal(t, "index", decl.Origin)
	})

	t.Run("by simple name", func(t *testing.T) {
		decl, err := idx.Lookup(ctx, "Shape")
		require.NoError(t, err)
		assert.Equal(t, "app.Shape", decl.QualifiedName)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := idx.Lookup(ctx, "app.Missing")
		var unsolved *typesolver.UnsolvedTypeError
		require.ErrorAs(t, err, &unsolved)
		assert.Equal(t, []string{"index"}, unsolved.Tried)
	})
}

func TestSaveUpserts(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	first := []*typesolver.TypeDeclaration{
		{QualifiedName: "app.Widget", SimpleName: "Widget", Kind: typesolver.KindClass},
	}
	require.NoError(t, idx.Save(ctx, first))

	second := []*typesolver.TypeDeclaration{
		{QualifiedName: "app.Widget", SimpleName: "Widget", Kind: typesolver.KindRecord},
	}
	require.NoError(t, idx.Save(ctx, second))

	decl, err := idx.Lookup(ctx, "app.Widget")
	require.NoError(t, err)
	assert.Equal(t, typesolver.KindRecord, decl.Kind)
}

func TestIndexedSolver(t *testing.T) {
	idx := openTestIndex(t)
	require.NoError(t, idx.Save(context.Background(), []*typesolver.TypeDeclaration{
		{QualifiedName: "app.Engine", SimpleName: "Engine", Kind: typesolver.KindClass},
	}))

	solver := NewIndexedSolver(idx)
	assert.Equal(t, "index", solver.Name())

	decl, err := solver.Solve("app.Engine")
	require.NoError(t, err)
	assert.Equal(t, "Engine", decl.SimpleName)
}
