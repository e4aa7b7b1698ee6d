package scope

import (
	"testing"

	"javasym/internal/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(line, col int) tree.Position {
	return tree.Position{Line: line, Col: col}
}

func TestDeclareAndLookup(t *testing.T) {
	table := NewTable()
	method := table.NewScope(KindMethodBody, table.Root())
	block := table.NewScope(KindBlock, method)

	outer, err := table.Declare(method, "x", "int", at(1, 1))
	require.NoError(t, err)

	t.Run("lookup walks outward", func(t *testing.T) {
		got, found := table.Lookup(block, "x")
		require.True(t, found)
		assert.Equal(t, outer, got)
	})

	t.Run("innermost declaration shadows", func(t *testing.T) {
		inner, err := table.Declare(block, "x", "String", at(2, 5))
		require.NoError(t, err)

		got, found := table.Lookup(block, "x")
		require.True(t, found)
		assert.Equal(t, inner, got)
		assert.Equal(t, "String", table.Decl(got).Type)

		// The outer scope still sees its own declaration.
		got, found = table.Lookup(method, "x")
		require.True(t, found)
		assert.Equal(t, outer, got)
	})

	t.Run("unknown name is not found", func(t *testing.T) {
		_, found := table.Lookup(block, "y")
		assert.False(t, found)
	})
}

func TestDuplicateDeclarations(t *testing.T) {
	table := NewTable()
	block := table.NewScope(KindBlock, table.Root())

	_, err := table.Declare(block, "x", "int", at(1, 1))
	require.NoError(t, err)

	_, err = table.Declare(block, "x", "long", at(2, 1))
	var dup *DuplicateDeclarationError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "x", dup.Name)
	assert.Equal(t, "(line 2,col 1) Duplicate declaration of 'x'", err.Error())
}

func TestUnnamedBinderNeverConflicts(t *testing.T) {
	table := NewTable()
	block := table.NewScope(KindBlock, table.Root())
	nested := table.NewScope(KindBlock, block)

	for i := 0; i < 3; i++ {
		_, err := table.Declare(block, tree.UnnamedBinder, "int", at(i+1, 1))
		require.NoError(t, err)
	}
	_, err := table.Declare(nested, tree.UnnamedBinder, "String", at(9, 1))
	require.NoError(t, err)

	t.Run("lookup still finds the binder", func(t *testing.T) {
		got, found := table.Lookup(nested, tree.UnnamedBinder)
		require.True(t, found)
		assert.True(t, table.Decl(got).Unnamed())
	})

	t.Run("binder is never visible", func(t *testing.T) {
		for _, id := range table.VisibleAt(nested) {
			assert.False(t, table.Decl(id).Unnamed())
		}
	})
}

func TestVisibleAtNearestFirst(t *testing.T) {
	table := NewTable()
	method := table.NewScope(KindMethodBody, table.Root())
	block := table.NewScope(KindBlock, method)

	_, err := table.Declare(method, "a", "int", at(1, 1))
	require.NoError(t, err)
	_, err = table.Declare(method, "b", "int", at(1, 8))
	require.NoError(t, err)
	shadowing, err := table.Declare(block, "a", "String", at(2, 1))
	require.NoError(t, err)

	visible := table.VisibleAt(block)
	require.Len(t, visible, 2)
	assert.Equal(t, shadowing, visible[0], "the shadowing declaration wins")
	names := []string{table.Decl(visible[0]).Name, table.Decl(visible[1]).Name}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}
