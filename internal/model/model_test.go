package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{Procedure, "Procedure"},
		{Function, "Function"},
		{Variable, "Variable"},
		{Kind(42), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestAddChildDeduplicatesIdenticalSubtrees(t *testing.T) {
	t.Parallel()

	parent := NewNode("main", Procedure)
	require.NoError(t, parent.AddChild(NewNode("Foo", Function)))
	require.NoError(t, parent.AddChild(NewNode("Foo", Function)))
	require.NoError(t, parent.AddChild(NewNode("Foo", Procedure)))

	assert.Equal(t, 2, parent.Len())
}

func TestAddChildKeepsSameNameDifferentShape(t *testing.T) {
	t.Parallel()

	full := NewNode("helper", Procedure)
	require.NoError(t, full.AddChild(NewNode("Baz", Function)))

	parent := NewNode("main", Procedure)
	require.NoError(t, parent.AddChild(full))
	require.NoError(t, parent.AddChild(NewNode("helper", Procedure)))

	assert.Equal(t, 2, parent.Len())
}

func TestAddChildFreezesChild(t *testing.T) {
	t.Parallel()

	child := NewNode("helper", Procedure)
	parent := NewNode("main", Procedure)
	require.NoError(t, parent.AddChild(child))

	assert.True(t, child.Frozen())
	assert.False(t, parent.Frozen())
	assert.ErrorIs(t, child.AddChild(NewNode("Late", Function)), ErrNodeFrozen)
	assert.Equal(t, 0, child.Len())
}

func TestChildrenOrderedByKey(t *testing.T) {
	t.Parallel()

	parent := NewNode("main", Procedure)
	for _, name := range []string{"Zed", "Alpha", "Mid"} {
		require.NoError(t, parent.AddChild(NewNode(name, Function)))
	}

	var names []string
	for _, c := range parent.Children() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Alpha", "Mid", "Zed"}, names)
}

func TestKeyEscapesNames(t *testing.T) {
	t.Parallel()

	a := NewNode(`a"{b}`, Procedure)
	require.NoError(t, a.AddChild(NewNode("x,y", Function)))

	assert.Equal(t, `Procedure:"a\"{b}"{Function:"x,y"{}}`, a.Key())

	// A name that mimics another node's key must not collide with it.
	b := NewNode(`a"{b}"{Function:"x,y"{}}`, Procedure)
	assert.NotEqual(t, a.Key(), b.Key())
}
