package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dispatchgen/internal/ir"
)

func TestAnalyzeHierarchy_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeHierarchy(nil))
}

func TestAnalyzeHierarchy_Tree(t *testing.T) {
	decls := []ir.EventTypeDecl{
		{Name: "Base"},
		{Name: "FooBase", Parent: "Base"},
		{Name: "BarBase", Parent: "Base"},
		{Name: "FooA", Parent: "FooBase"},
		{Name: "Orphan", Parent: "Missing"},
	}
	assert.Empty(t, AnalyzeHierarchy(decls), "a tree has no cycles")
}

func TestAnalyzeHierarchy_SelfLoop(t *testing.T) {
	warnings := AnalyzeHierarchy([]ir.EventTypeDecl{{Name: "Loop", Parent: "Loop"}})

	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"Loop", "Loop"}, warnings[0].Path)
	assert.Equal(t, "error", warnings[0].Level)
}

func TestAnalyzeHierarchy_TwoNodes(t *testing.T) {
	warnings := AnalyzeHierarchy([]ir.EventTypeDecl{
		{Name: "B", Parent: "A"},
		{Name: "A", Parent: "B"},
	})

	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"A", "B", "A"}, warnings[0].Path)
	assert.Equal(t, "inheritance cycle: A → B → A", warnings[0].Message)
}

func TestAnalyzeHierarchy_CycleWithTail(t *testing.T) {
	// Leaf hangs off the cycle but is not part of it.
	warnings := AnalyzeHierarchy([]ir.EventTypeDecl{
		{Name: "Leaf", Parent: "X"},
		{Name: "X", Parent: "Y"},
		{Name: "Y", Parent: "Z"},
		{Name: "Z", Parent: "X"},
	})

	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"X", "Y", "Z", "X"}, warnings[0].Path)
}

func TestAnalyzeHierarchy_MultipleCyclesSorted(t *testing.T) {
	decls := []ir.EventTypeDecl{
		{Name: "Q", Parent: "P"},
		{Name: "P", Parent: "Q"},
		{Name: "B", Parent: "A"},
		{Name: "A", Parent: "B"},
		{Name: "Fine"},
	}

	for range 10 {
		warnings := AnalyzeHierarchy(decls)
		require.Len(t, warnings, 2)
		assert.Equal(t, []string{"A", "B", "A"}, warnings[0].Path)
		assert.Equal(t, []string{"P", "Q", "P"}, warnings[1].Path)
	}
}
