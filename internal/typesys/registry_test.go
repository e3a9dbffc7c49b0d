package typesys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dispatchgen/internal/ir"
)

// hierarchyDecls mirrors the event model used across the ordering tests:
//
//	Base ─┬─ FooBase (IFoo) ─┬─ FooA
//	      │                  └─ FooX
//	      └─ BarBase (IBar) ─┬─ BarA, BarX
//	                         └─ FooBarA, FooBarX (IFoo)
func hierarchyDecls() []ir.EventTypeDecl {
	return []ir.EventTypeDecl{
		{Name: "FooA", Parent: "FooBase"},
		{Name: "Base"},
		{Name: "IFoo", Interface: true},
		{Name: "IBar", Interface: true},
		{Name: "FooBase", Parent: "Base", Implements: []string{"IFoo"}},
		{Name: "FooX", Parent: "FooBase"},
		{Name: "BarBase", Parent: "Base", Implements: []string{"IBar"}},
		{Name: "BarA", Parent: "BarBase"},
		{Name: "BarX", Parent: "BarBase"},
		{Name: "FooBarA", Parent: "BarBase", Implements: []string{"IFoo"}},
		{Name: "FooBarX", Parent: "BarBase", Implements: []string{"IFoo"}},
	}
}

func names(types []*Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Name
	}
	return out
}

func TestResolveHierarchy(t *testing.T) {
	reg, err := Resolve(hierarchyDecls())
	require.NoError(t, err)

	assert.Equal(t, 11, reg.Len())
	assert.Equal(t, "FooA", reg.Types()[0].Name, "declaration order preserved")

	fooA, ok := reg.Lookup("FooA")
	require.True(t, ok)
	assert.Equal(t, []string{"any", "Base", "FooBase", "FooA"}, names(Chain(fooA)))

	iFoo, ok := reg.Lookup("IFoo")
	require.True(t, ok)
	assert.True(t, iFoo.IsInterface())
	assert.Same(t, reg.Root(), iFoo.Parent)
	assert.Equal(t, []string{"any", "IFoo"}, names(Chain(iFoo)))

	base, _ := reg.Lookup("Base")
	assert.Same(t, reg.Root(), base.Parent)
}

func TestResolveRoot(t *testing.T) {
	reg, err := Resolve(nil)
	require.NoError(t, err)

	root, ok := reg.Lookup(RootName)
	require.True(t, ok)
	assert.True(t, root.IsRoot())
	assert.Equal(t, []string{"any"}, names(Chain(root)))
	assert.Equal(t, 0, reg.Len())
}

func TestDerivesFrom(t *testing.T) {
	reg, err := Resolve(hierarchyDecls())
	require.NoError(t, err)

	get := func(name string) *Type {
		typ, ok := reg.Lookup(name)
		require.True(t, ok, name)
		return typ
	}

	assert.True(t, get("FooA").DerivesFrom(get("FooBase")))
	assert.True(t, get("FooA").DerivesFrom(get("Base")))
	assert.True(t, get("FooA").DerivesFrom(reg.Root()))
	assert.False(t, get("FooBase").DerivesFrom(get("FooA")))
	assert.False(t, get("FooA").DerivesFrom(get("FooA")), "strict")
	assert.False(t, get("FooBarA").DerivesFrom(get("IFoo")), "capabilities are not ancestry")
	assert.False(t, get("FooA").DerivesFrom(nil))
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		decls []ir.EventTypeDecl
		want  error
	}{
		{"duplicate", []ir.EventTypeDecl{{Name: "A"}, {Name: "A"}}, ErrDuplicateType},
		{"reserved", []ir.EventTypeDecl{{Name: RootName}}, ErrReservedName},
		{"empty name", []ir.EventTypeDecl{{Name: ""}}, ErrEmptyName},
		{"unknown parent", []ir.EventTypeDecl{{Name: "A", Parent: "Missing"}}, ErrUnknownParent},
		{"interface with parent", []ir.EventTypeDecl{{Name: "A"}, {Name: "IA", Interface: true, Parent: "A"}}, ErrInterfaceParent},
		{"class from interface", []ir.EventTypeDecl{{Name: "IA", Interface: true}, {Name: "A", Parent: "IA"}}, ErrInterfaceParent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.decls)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var declErr *DeclError
			assert.True(t, errors.As(err, &declErr))
		})
	}
}

func TestResolveCycle(t *testing.T) {
	_, err := Resolve([]ir.EventTypeDecl{
		{Name: "Root"},
		{Name: "A", Parent: "C"},
		{Name: "B", Parent: "A"},
		{Name: "C", Parent: "B"},
	})
	require.Error(t, err)

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{"A", "C", "B", "A"}, cycleErr.Path)
	assert.Contains(t, err.Error(), "inheritance cycle")
}

func TestResolveSelfParent(t *testing.T) {
	_, err := Resolve([]ir.EventTypeDecl{{Name: "A", Parent: "A"}})

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{"A", "A"}, cycleErr.Path)
}

func TestChainNil(t *testing.T) {
	assert.Empty(t, Chain(nil))
}

func TestChainUnresolved(t *testing.T) {
	// Types built by hand walk their parent links.
	base := &Type{Name: "Base"}
	leaf := &Type{Name: "Leaf", Parent: base}

	assert.Equal(t, []string{"Base", "Leaf"}, names(Chain(leaf)))
	assert.Equal(t, []string{"Base"}, names(Chain(base)))
}

func TestFoldKey(t *testing.T) {
	reg, err := Resolve([]ir.EventTypeDecl{{Name: "fooBar"}})
	require.NoError(t, err)

	typ, _ := reg.Lookup("fooBar")
	assert.Equal(t, "FOOBAR", typ.FoldKey())
	assert.Equal(t, "BAZ", (&Type{Name: "baz"}).FoldKey())
}

func TestTypesReturnsCopy(t *testing.T) {
	reg, err := Resolve(hierarchyDecls())
	require.NoError(t, err)

	types := reg.Types()
	types[0] = nil
	assert.NotNil(t, reg.Types()[0])
}
