package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/dispatchgen/internal/ir"
	"github.com/roach88/dispatchgen/internal/typesys"
)

// testRegistry resolves the event model shared by the ordering tests:
//
//	Base ─┬─ FooBase (IFoo) ─┬─ FooA
//	      │                  └─ FooX
//	      └─ BarBase (IBar) ─┬─ BarA, BarX
//	                         └─ FooBarA, FooBarX (IFoo)
//	IFoo, IBar (interfaces, directly under the root)
func testRegistry(t testing.TB) *typesys.Registry {
	t.Helper()
	reg, err := typesys.Resolve([]ir.EventTypeDecl{
		{Name: "Base"},
		{Name: "IFoo", Interface: true},
		{Name: "IBar", Interface: true},
		{Name: "FooBase", Parent: "Base", Implements: []string{"IFoo"}},
		{Name: "BarBase", Parent: "Base", Implements: []string{"IBar"}},
		{Name: "FooA", Parent: "FooBase"},
		{Name: "FooX", Parent: "FooBase"},
		{Name: "BarA", Parent: "BarBase"},
		{Name: "BarX", Parent: "BarBase"},
		{Name: "FooBarA", Parent: "BarBase", Implements: []string{"IFoo"}},
		{Name: "FooBarX", Parent: "BarBase", Implements: []string{"IFoo"}},
	})
	require.NoError(t, err)
	return reg
}

func lookupTypes(t testing.TB, reg *typesys.Registry, names ...string) []*typesys.Type {
	t.Helper()
	types := make([]*typesys.Type, len(names))
	for i, name := range names {
		typ, ok := reg.Lookup(name)
		require.True(t, ok, "unknown type %q", name)
		types[i] = typ
	}
	return types
}

// framesFor builds one synchronous frame per type with no code block.
func framesFor(t testing.TB, types []*typesys.Type) []*Frame {
	t.Helper()
	frames := make([]*Frame, len(types))
	for i, typ := range types {
		f, err := New(typ, false, nil)
		require.NoError(t, err)
		frames[i] = f
	}
	return frames
}

// requireSameFrames asserts got holds exactly the frames of want, by identity.
func requireSameFrames(t testing.TB, want, got []*Frame) {
	t.Helper()
	require.Len(t, got, len(want))
	counts := make(map[*Frame]int, len(want))
	for _, f := range want {
		counts[f]++
	}
	for _, f := range got {
		counts[f]--
	}
	for f, n := range counts {
		require.Zero(t, n, "frame %v count mismatch", f)
	}
}

// requireDerivedBeforeBase asserts that for every frame, no frame of one of
// its strict ancestors precedes it.
func requireDerivedBeforeBase(t testing.TB, sorted []*Frame) {
	t.Helper()
	index := make(map[*typesys.Type]int, len(sorted))
	for i, f := range sorted {
		if _, ok := index[f.EventType()]; !ok {
			index[f.EventType()] = i
		}
	}
	for i, f := range sorted {
		for p := f.EventType().Parent; p != nil; p = p.Parent {
			if j, ok := index[p]; ok {
				require.Greater(t, j, i, "%q should come before %q in %v", f, p, EventTypes(sorted))
			}
		}
	}
}
